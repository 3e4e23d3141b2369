package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Fokku/flightbooker/internal/application/flight"
	"github.com/Fokku/flightbooker/internal/domain"
)

type FlightHandler struct {
	svc flight.Service
}

func NewFlightHandler(svc flight.Service) *FlightHandler {
	return &FlightHandler{svc: svc}
}

func (h *FlightHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	passengers, _ := strconv.Atoi(q.Get("passengers"))
	flights, err := h.svc.Search(r.Context(), domain.FlightSearch{
		Departure:  q.Get("departure"),
		Arrival:    q.Get("arrival"),
		Date:       q.Get("date"),
		Passengers: passengers,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flights retrieved", flights)
}

func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	f, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flight retrieved", f)
}

func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	flights, err := h.svc.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flights retrieved", flights)
}

func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFlightRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	f, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flight created", f)
}

func (h *FlightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	var req domain.UpdateFlightRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	f, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flight updated", f)
}

func (h *FlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Flight deleted", nil)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.E(domain.ErrBadRequest, "Missing required fields")
	}
	return id, nil
}
