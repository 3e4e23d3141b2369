package handler

import (
	"net/http"

	"github.com/Fokku/flightbooker/internal/application/booking"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/transport/http/middleware"
)

type BookingHandler struct {
	svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	b, err := h.svc.Create(r.Context(), *sess.UserID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Booking created", b)
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	bookings, err := h.svc.ListByUser(r.Context(), *sess.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Bookings retrieved", bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	b, err := h.svc.Get(r.Context(), id, *sess.UserID, sess.IsAdmin())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Booking retrieved", b)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if err := h.svc.Cancel(r.Context(), id, *sess.UserID, sess.IsAdmin()); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Booking cancelled", nil)
}

func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListAll(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Bookings retrieved", bookings)
}
