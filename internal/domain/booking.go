package domain

import "time"

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	FlightID       int64     `db:"flight_id" json:"flight_id"`
	ReturnFlightID *int64    `db:"return_flight_id" json:"return_flight_id,omitempty"`
	Passengers     int       `db:"passengers" json:"passengers"`
	TotalPrice     float64   `db:"total_price" json:"total_price"`
	CustomerName   string    `db:"customer_name" json:"customer_name"`
	CustomerEmail  string    `db:"customer_email" json:"customer_email"`
	CustomerPhone  string    `db:"customer_phone" json:"customer_phone"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Joined flight details, present on detail/list reads.
	Flight *Flight `db:"-" json:"flight,omitempty"`
}

type CreateBookingRequest struct {
	FlightID       int64  `json:"flight_id" validate:"required"`
	ReturnFlightID *int64 `json:"return_flight_id"`
	Passengers     int    `json:"passengers" validate:"required,gt=0"`
	CustomerName   string `json:"customer_name" validate:"required"`
	CustomerEmail  string `json:"customer_email" validate:"required,email"`
	CustomerPhone  string `json:"customer_phone" validate:"required"`
}
