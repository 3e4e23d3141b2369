package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

const bookingColumns = `id, user_id, flight_id, return_flight_id, passengers, total_price, customer_name, customer_email, customer_phone, status, created_at`

type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	var out domain.Booking
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO bookings (user_id, flight_id, return_flight_id, passengers, total_price, customer_name, customer_email, customer_phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+bookingColumns,
		b.UserID, b.FlightID, b.ReturnFlightID, b.Passengers, b.TotalPrice,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, domain.BookingConfirmed)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

func (r *BookingRepo) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		return nil, classify(err)
	}
	return &b, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *BookingRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, classify(err)
	}
	return bookings, nil
}

func (r *BookingRepo) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
