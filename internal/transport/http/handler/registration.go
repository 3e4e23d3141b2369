package handler

import (
	"net/http"

	"github.com/Fokku/flightbooker/internal/application/registration"
	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/session"
	"github.com/Fokku/flightbooker/internal/transport/http/middleware"
)

// RegistrationHandler drives the OTP-verified registration flow. Every
// endpoint mutates the session's pre-registration slot, so each one saves the
// session before responding.
type RegistrationHandler struct {
	svc      registration.Service
	verifier verification.Service
	sessions *session.Manager
}

func NewRegistrationHandler(svc registration.Service, verifier verification.Service, sessions *session.Manager) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, verifier: verifier, sessions: sessions}
}

func (h *RegistrationHandler) PreRegister(w http.ResponseWriter, r *http.Request) {
	var req registration.StartRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if err := h.svc.Start(r.Context(), sess, req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Verification code sent successfully", nil)
}

func (h *RegistrationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req registration.VerifyRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if err := h.svc.VerifyCode(r.Context(), sess, req); err != nil {
		// Recovery may have rewritten the slot even on a failed code; keep
		// the session in step with what the flow decided.
		_ = h.sessions.Save(r.Context(), w, sess)
		respondErr(w, err)
		return
	}
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Email verification successful", nil)
}

func (h *RegistrationHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req registration.ResendRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if err := h.svc.Resend(r.Context(), sess, req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Verification code resent successfully", nil)
}

func (h *RegistrationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req registration.CompleteRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	u, err := h.svc.Complete(r.Context(), sess, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	sess.SetUser(u)
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Registration successful", u)
}

// DevCode exposes the most recent code for an email. The service refuses it
// outside development; the route is additionally only mounted there.
func (h *RegistrationHandler) DevCode(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	purpose := domain.VerificationPurpose(r.URL.Query().Get("type"))
	if email == "" {
		respondErr(w, domain.E(domain.ErrBadRequest, "Missing required fields"))
		return
	}
	if purpose == "" {
		purpose = domain.PurposePreRegistration
	}
	dc, err := h.verifier.LatestCode(r.Context(), email, purpose)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "OTP retrieved", dc)
}
