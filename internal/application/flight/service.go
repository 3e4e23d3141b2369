package flight

import (
	"context"
	"errors"

	"github.com/Fokku/flightbooker/internal/domain"
)

type Store interface {
	Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	Get(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Create(ctx context.Context, req domain.CreateFlightRequest) (*domain.Flight, error)
	Update(ctx context.Context, id int64, req domain.UpdateFlightRequest) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
	Get(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Create(ctx context.Context, req domain.CreateFlightRequest) (*domain.Flight, error)
	Update(ctx context.Context, id int64, req domain.UpdateFlightRequest) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	if q.Passengers <= 0 {
		q.Passengers = 1
	}
	return s.store.Search(ctx, q)
}

func (s *service) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "Flight not found")
		}
		return nil, err
	}
	return f, nil
}

func (s *service) List(ctx context.Context) ([]domain.Flight, error) {
	return s.store.List(ctx)
}

func (s *service) Create(ctx context.Context, req domain.CreateFlightRequest) (*domain.Flight, error) {
	// A new flight starts fully open unless the caller says otherwise.
	if req.AvailableSeats == 0 {
		req.AvailableSeats = req.TotalSeats
	}
	return s.store.Create(ctx, req)
}

func (s *service) Update(ctx context.Context, id int64, req domain.UpdateFlightRequest) (*domain.Flight, error) {
	f, err := s.store.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "Flight not found")
		}
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "Flight not found")
		}
		return err
	}
	return nil
}
