package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Fokku/flightbooker/internal/domain"
)

type Store interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

type FlightStore interface {
	Get(ctx context.Context, id int64) (*domain.Flight, error)
	SetAvailableSeats(ctx context.Context, id int64, seats int) error
}

type Service interface {
	// Create books a flight for the user, pricing at flight price times
	// passenger count and decrementing seat inventory.
	Create(ctx context.Context, userID int64, req domain.CreateBookingRequest) (*domain.Booking, error)
	// Get returns one booking with its flight attached. Non-admin callers only
	// see their own bookings.
	Get(ctx context.Context, id, callerID int64, admin bool) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	// Cancel flips the booking to cancelled and restores its seats.
	Cancel(ctx context.Context, id, callerID int64, admin bool) error
}

type service struct {
	store   Store
	flights FlightStore
}

func NewService(store Store, flights FlightStore) Service {
	return &service{store: store, flights: flights}
}

func (s *service) Create(ctx context.Context, userID int64, req domain.CreateBookingRequest) (*domain.Booking, error) {
	f, err := s.reserve(ctx, req.FlightID, req.Passengers)
	if err != nil {
		return nil, err
	}
	total := f.Price * float64(req.Passengers)

	if req.ReturnFlightID != nil {
		rf, err := s.reserve(ctx, *req.ReturnFlightID, req.Passengers)
		if err != nil {
			// Give back the outbound seats before failing the booking.
			s.restore(ctx, f.ID, req.Passengers)
			return nil, err
		}
		total += rf.Price * float64(req.Passengers)
	}

	b, err := s.store.Create(ctx, &domain.Booking{
		UserID:         userID,
		FlightID:       req.FlightID,
		ReturnFlightID: req.ReturnFlightID,
		Passengers:     req.Passengers,
		TotalPrice:     total,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
	})
	if err != nil {
		s.restore(ctx, req.FlightID, req.Passengers)
		if req.ReturnFlightID != nil {
			s.restore(ctx, *req.ReturnFlightID, req.Passengers)
		}
		return nil, err
	}
	b.Flight = f
	slog.Info("booking created", "booking_id", b.ID, "user_id", userID, "flight_id", req.FlightID)
	return b, nil
}

func (s *service) Get(ctx context.Context, id, callerID int64, admin bool) (*domain.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "Booking not found")
		}
		return nil, err
	}
	if !admin && b.UserID != callerID {
		return nil, domain.E(domain.ErrForbidden, "Booking not found")
	}
	if f, err := s.flights.Get(ctx, b.FlightID); err == nil {
		b.Flight = f
	}
	return b, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.attachFlights(ctx, bookings)
	return bookings, nil
}

func (s *service) ListAll(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.attachFlights(ctx, bookings)
	return bookings, nil
}

func (s *service) Cancel(ctx context.Context, id, callerID int64, admin bool) error {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "Booking not found")
		}
		return err
	}
	if !admin && b.UserID != callerID {
		return domain.E(domain.ErrForbidden, "Booking not found")
	}
	if b.Status == domain.BookingCancelled {
		return domain.E(domain.ErrBadRequest, "Booking is already cancelled")
	}

	if err := s.store.SetStatus(ctx, id, domain.BookingCancelled); err != nil {
		return err
	}
	s.restore(ctx, b.FlightID, b.Passengers)
	if b.ReturnFlightID != nil {
		s.restore(ctx, *b.ReturnFlightID, b.Passengers)
	}
	slog.Info("booking cancelled", "booking_id", id, "user_id", b.UserID)
	return nil
}

// reserve checks seat availability and decrements the count.
func (s *service) reserve(ctx context.Context, flightID int64, passengers int) (*domain.Flight, error) {
	f, err := s.flights.Get(ctx, flightID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "Flight not found")
		}
		return nil, err
	}
	if f.AvailableSeats < passengers {
		return nil, domain.E(domain.ErrBadRequest, "Not enough seats available")
	}
	if err := s.flights.SetAvailableSeats(ctx, flightID, f.AvailableSeats-passengers); err != nil {
		return nil, err
	}
	return f, nil
}

// restore gives seats back after a cancellation or a failed booking step.
func (s *service) restore(ctx context.Context, flightID int64, passengers int) {
	f, err := s.flights.Get(ctx, flightID)
	if err != nil {
		slog.Warn("failed to restore seats", "flight_id", flightID, "err", err)
		return
	}
	seats := f.AvailableSeats + passengers
	if seats > f.TotalSeats {
		seats = f.TotalSeats
	}
	if err := s.flights.SetAvailableSeats(ctx, flightID, seats); err != nil {
		slog.Warn("failed to restore seats", "flight_id", flightID, "err", err)
	}
}

func (s *service) attachFlights(ctx context.Context, bookings []domain.Booking) {
	for i := range bookings {
		if f, err := s.flights.Get(ctx, bookings[i].FlightID); err == nil {
			bookings[i].Flight = f
		}
	}
}
