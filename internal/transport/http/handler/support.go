package handler

import (
	"net/http"

	"github.com/Fokku/flightbooker/internal/application/support"
	"github.com/Fokku/flightbooker/internal/domain"
)

type SupportHandler struct {
	svc support.Service
}

func NewSupportHandler(svc support.Service) *SupportHandler {
	return &SupportHandler{svc: svc}
}

func (h *SupportHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	c, err := h.svc.SubmitContact(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Message sent successfully", c)
}

func (h *SupportHandler) FAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.svc.ListFAQs(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "FAQs retrieved", faqs)
}
