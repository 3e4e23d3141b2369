package postgres

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

var flightColumns = []string{
	"id", "flight_number", "airline", "departure", "arrival",
	"date", "time", "duration", "price", "total_seats", "available_seats", "created_at",
}

const flightColumnList = `id, flight_number, airline, departure, arrival, date, time, duration, price, total_seats, available_seats, created_at`

type FlightRepo struct {
	db *sqlx.DB
}

func NewFlightRepo(db *sqlx.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// Search builds the filter set dynamically; absent filters are simply not in
// the where map. Results are ordered by departure date then time.
func (r *FlightRepo) Search(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	where := map[string]interface{}{
		"available_seats >=": q.Passengers,
		"_orderby":           "date asc, time asc",
	}
	if q.Departure != "" {
		where["departure like"] = "%" + q.Departure + "%"
	}
	if q.Arrival != "" {
		where["arrival like"] = "%" + q.Arrival + "%"
	}
	if q.Date != "" {
		where["date"] = q.Date
	}
	sqlStr, args, err := builder.BuildSelect("flights", where, flightColumns)
	if err != nil {
		return nil, err
	}
	sqlStr = sqlx.Rebind(sqlx.DOLLAR, sqlStr)

	flights := []domain.Flight{}
	if err := r.db.SelectContext(ctx, &flights, sqlStr, args...); err != nil {
		return nil, classify(err)
	}
	return flights, nil
}

func (r *FlightRepo) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	if err := r.db.GetContext(ctx, &f, `SELECT `+flightColumnList+` FROM flights WHERE id = $1`, id); err != nil {
		return nil, classify(err)
	}
	return &f, nil
}

func (r *FlightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	flights := []domain.Flight{}
	err := r.db.SelectContext(ctx, &flights, `
		SELECT `+flightColumnList+` FROM flights ORDER BY date ASC, time ASC`)
	if err != nil {
		return nil, classify(err)
	}
	return flights, nil
}

func (r *FlightRepo) Create(ctx context.Context, req domain.CreateFlightRequest) (*domain.Flight, error) {
	var f domain.Flight
	err := r.db.GetContext(ctx, &f, `
		INSERT INTO flights (flight_number, airline, departure, arrival, date, time, duration, price, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+flightColumnList,
		req.FlightNumber, req.Airline, req.Departure, req.Arrival, req.Date, req.Time,
		req.Duration, req.Price, req.TotalSeats, req.AvailableSeats)
	if err != nil {
		return nil, classify(err)
	}
	return &f, nil
}

func (r *FlightRepo) Update(ctx context.Context, id int64, req domain.UpdateFlightRequest) (*domain.Flight, error) {
	var f domain.Flight
	err := r.db.GetContext(ctx, &f, `
		UPDATE flights SET
			flight_number   = COALESCE($1, flight_number),
			airline         = COALESCE($2, airline),
			departure       = COALESCE($3, departure),
			arrival         = COALESCE($4, arrival),
			date            = COALESCE($5, date),
			time            = COALESCE($6, time),
			duration        = COALESCE($7, duration),
			price           = COALESCE($8, price),
			total_seats     = COALESCE($9, total_seats),
			available_seats = COALESCE($10, available_seats)
		WHERE id = $11
		RETURNING `+flightColumnList,
		req.FlightNumber, req.Airline, req.Departure, req.Arrival, req.Date, req.Time,
		req.Duration, req.Price, req.TotalSeats, req.AvailableSeats, id)
	if err != nil {
		return nil, classify(err)
	}
	return &f, nil
}

func (r *FlightRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAvailableSeats writes the new seat count. Deliberately a plain
// overwrite: seat inventory is not guarded against concurrent bookings.
func (r *FlightRepo) SetAvailableSeats(ctx context.Context, id int64, seats int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE flights SET available_seats = $1 WHERE id = $2`, seats, id); err != nil {
		return classify(err)
	}
	return nil
}
