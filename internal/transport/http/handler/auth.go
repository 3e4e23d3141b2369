package handler

import (
	"net/http"

	"github.com/Fokku/flightbooker/internal/application/auth"
	"github.com/Fokku/flightbooker/internal/session"
	"github.com/Fokku/flightbooker/internal/transport/http/middleware"
)

type AuthHandler struct {
	svc      auth.Service
	sessions *session.Manager
}

func NewAuthHandler(svc auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	u, err := h.svc.Login(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	sess.SetUser(u)
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Login successful", u)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Logout successful", nil)
}

// CheckSession reports the login state without failing the envelope, so the
// frontend can probe it on page load.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	data := map[string]interface{}{"logged_in": sess.LoggedIn()}
	if sess.LoggedIn() {
		data["user_id"] = *sess.UserID
		data["username"] = sess.Username
		data["role"] = sess.Role
	}
	respond(w, "Session status", data)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgotPasswordRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Password reset verification code sent to your email", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Password reset successfully", nil)
}

// SendVerificationEmail issues a fresh email-verification code to the
// logged-in user's address.
func (h *AuthHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.svc.RequestEmailVerification(r.Context(), *sess.UserID, req.Email); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Verification code sent successfully", nil)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyEmailRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.svc.VerifyEmail(r.Context(), req); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, "Email verified successfully", nil)
}
