package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/Fokku/flightbooker/internal/application/auth"
	"github.com/Fokku/flightbooker/internal/application/booking"
	"github.com/Fokku/flightbooker/internal/application/flight"
	"github.com/Fokku/flightbooker/internal/application/registration"
	"github.com/Fokku/flightbooker/internal/application/support"
	"github.com/Fokku/flightbooker/internal/application/user"
	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/config"
	"github.com/Fokku/flightbooker/internal/transport/http/handler"
	appmiddleware "github.com/Fokku/flightbooker/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.WithSession(deps.Sessions))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verifySvc := verification.NewService(deps.VerificationRepo, deps.Notifier, cfg.Development)
	registrationSvc := registration.NewService(deps.UserRepo, verifySvc)
	authSvc := auth.NewService(deps.UserRepo, verifySvc)
	userSvc := user.NewService(deps.UserRepo)
	flightSvc := flight.NewService(deps.FlightRepo)
	bookingSvc := booking.NewService(deps.BookingRepo, deps.FlightRepo)
	supportSvc := support.NewService(deps.ContactRepo, deps.FAQRepo)

	healthH := handler.NewHealthHandler()
	registrationH := handler.NewRegistrationHandler(registrationSvc, verifySvc, deps.Sessions)
	authH := handler.NewAuthHandler(authSvc, deps.Sessions)
	userH := handler.NewUserHandler(userSvc, deps.Sessions)
	flightH := handler.NewFlightHandler(flightSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)
	supportH := handler.NewSupportHandler(supportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/ping", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/pre-register", registrationH.PreRegister)
		r.With(sensitiveRL.Limit).Post("/auth/verify-pre-registration", registrationH.VerifyCode)
		r.With(sensitiveRL.Limit).Post("/auth/resend-registration-otp", registrationH.Resend)
		r.With(sensitiveRL.Limit).Post("/auth/register", registrationH.Complete)
		r.With(sensitiveRL.Limit).Post("/auth/forgot-password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password", authH.ResetPassword)
		r.With(sensitiveRL.Limit).Post("/auth/verify-email", authH.VerifyEmail)
		r.Get("/auth/check-session", authH.CheckSession)

		r.Get("/flights/search", flightH.Search)
		r.Get("/flights/{id}", flightH.Get)
		r.Post("/contact", supportH.Contact)
		r.Get("/faq", supportH.FAQs)

		// Double gate: the service also refuses outside development.
		if cfg.Development {
			r.Get("/auth/dev/otp", registrationH.DevCode)
		}

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireLogin)

			r.Post("/auth/logout", authH.Logout)
			r.Post("/auth/send-verification-email", authH.SendVerificationEmail)

			r.Get("/users/profile", userH.Profile)
			r.Put("/users/profile", userH.UpdateProfile)
			r.Put("/users/password", userH.UpdatePassword)

			r.Post("/bookings", bookingH.Create)
			r.Get("/bookings/user", bookingH.ListMine)
			r.Get("/bookings/{id}", bookingH.Get)
			r.Post("/bookings/{id}/cancel", bookingH.Cancel)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin)

				r.Get("/bookings", bookingH.ListAll)

				r.Get("/admin/flights", flightH.List)
				r.Post("/admin/flights", flightH.Create)
				r.Put("/admin/flights/{id}", flightH.Update)
				r.Delete("/admin/flights/{id}", flightH.Delete)
			})
		})
	})

	return r
}
