package http

import (
	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/infrastructure/postgres"
	"github.com/Fokku/flightbooker/internal/session"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *postgres.UserRepo
	VerificationRepo *postgres.VerificationRepo
	FlightRepo       *postgres.FlightRepo
	BookingRepo      *postgres.BookingRepo
	ContactRepo      *postgres.ContactRepo
	FAQRepo          *postgres.FAQRepo
	Notifier         verification.Notifier
	Sessions         *session.Manager
}
