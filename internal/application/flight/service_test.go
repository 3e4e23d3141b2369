package flight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Fokku/flightbooker/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	args := m.Called(ctx, q)
	if fs := args.Get(0); fs != nil {
		return fs.([]domain.Flight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if f := args.Get(0); f != nil {
		return f.(*domain.Flight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if fs := args.Get(0); fs != nil {
		return fs.([]domain.Flight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, req domain.CreateFlightRequest) (*domain.Flight, error) {
	args := m.Called(ctx, req)
	if f := args.Get(0); f != nil {
		return f.(*domain.Flight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id int64, req domain.UpdateFlightRequest) (*domain.Flight, error) {
	args := m.Called(ctx, id, req)
	if f := args.Get(0); f != nil {
		return f.(*domain.Flight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestSearch_DefaultsPassengerFloorToOne(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)

	store.On("Search", mock.Anything, domain.FlightSearch{Departure: "SIN", Passengers: 1}).
		Return([]domain.Flight{{ID: 1}}, nil)

	flights, err := svc.Search(context.Background(), domain.FlightSearch{Departure: "SIN"})
	require.NoError(t, err)
	assert.Len(t, flights, 1)
	store.AssertExpectations(t)
}

func TestGet_NotFoundMessage(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)

	store.On("Get", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound)

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Flight not found", err.Error())
}

func TestCreate_DefaultsAvailableSeatsToTotal(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(req domain.CreateFlightRequest) bool {
		return req.AvailableSeats == 180
	})).Return(&domain.Flight{ID: 1, TotalSeats: 180, AvailableSeats: 180}, nil)

	f, err := svc.Create(context.Background(), domain.CreateFlightRequest{
		FlightNumber: "FB101", Airline: "FlightBooker Air", Departure: "SIN", Arrival: "NRT",
		Date: "2025-06-01", Time: "08:30", Price: 420, TotalSeats: 180,
	})
	require.NoError(t, err)
	assert.Equal(t, 180, f.AvailableSeats)
}
