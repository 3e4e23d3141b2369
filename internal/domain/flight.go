package domain

import "time"

type Flight struct {
	ID             int64     `db:"id" json:"id"`
	FlightNumber   string    `db:"flight_number" json:"flight_number"`
	Airline        string    `db:"airline" json:"airline"`
	Departure      string    `db:"departure" json:"departure"`
	Arrival        string    `db:"arrival" json:"arrival"`
	Date           string    `db:"date" json:"date"` // YYYY-MM-DD
	Time           string    `db:"time" json:"time"` // HH:MM
	Duration       string    `db:"duration" json:"duration"`
	Price          float64   `db:"price" json:"price"`
	TotalSeats     int       `db:"total_seats" json:"total_seats"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// FlightSearch holds the optional search filters. Passengers acts as a floor
// on available seats.
type FlightSearch struct {
	Departure  string
	Arrival    string
	Date       string
	Passengers int
}

type CreateFlightRequest struct {
	FlightNumber   string  `json:"flight_number" validate:"required"`
	Airline        string  `json:"airline" validate:"required"`
	Departure      string  `json:"departure" validate:"required"`
	Arrival        string  `json:"arrival" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	Time           string  `json:"time" validate:"required"`
	Duration       string  `json:"duration"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	TotalSeats     int     `json:"total_seats" validate:"required,gt=0"`
	AvailableSeats int     `json:"available_seats"`
}

type UpdateFlightRequest struct {
	FlightNumber   *string  `json:"flight_number"`
	Airline        *string  `json:"airline"`
	Departure      *string  `json:"departure"`
	Arrival        *string  `json:"arrival"`
	Date           *string  `json:"date"`
	Time           *string  `json:"time"`
	Duration       *string  `json:"duration"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0"`
	TotalSeats     *int     `json:"total_seats" validate:"omitempty,gt=0"`
	AvailableSeats *int     `json:"available_seats" validate:"omitempty,gte=0"`
}
