package handler

import (
	"net/http"

	"github.com/Fokku/flightbooker/internal/application/user"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/session"
	"github.com/Fokku/flightbooker/internal/transport/http/middleware"
)

type UserHandler struct {
	svc      user.Service
	sessions *session.Manager
}

func NewUserHandler(svc user.Service, sessions *session.Manager) *UserHandler {
	return &UserHandler{svc: svc, sessions: sessions}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	u, err := h.svc.Get(r.Context(), *sess.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Profile retrieved", u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	u, err := h.svc.UpdateProfile(r.Context(), *sess.UserID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	// A username change must show up in the session row too.
	sess.SetUser(u)
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Profile updated", u)
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePasswordRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if err := h.svc.UpdatePassword(r.Context(), *sess.UserID, req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Password updated", nil)
}
