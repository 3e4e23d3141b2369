package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/pkg/id"
)

// SessionContext is the single pre-registration slot in the caller's session.
// The engine never sees the rest of the session, which keeps it testable
// without a real HTTP session store.
type SessionContext interface {
	PreRegistration() *domain.PreRegistration
	SetPreRegistration(*domain.PreRegistration)
	ClearPreRegistration()
}

// UserStore is the slice of the user table this flow needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, username, email, passwordHash string, emailVerified bool) (*domain.User, error)
}

type StartRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"omitempty,min=3"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CompleteRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	OTP      string `json:"otp" validate:"required"`
}

type Service interface {
	// Start begins an anonymous registration attempt: uniqueness checks,
	// fresh temp subject, session slot, code issuance.
	Start(ctx context.Context, sess SessionContext, req StartRequest) error
	// VerifyCode checks the submitted code, recovering the temp subject from
	// the store when the session slot is missing or mismatched.
	VerifyCode(ctx context.Context, sess SessionContext, req VerifyRequest) error
	// Resend issues a fresh code, reusing the session's temp subject when it
	// is still usable and minting a new one otherwise.
	Resend(ctx context.Context, sess SessionContext, req ResendRequest) error
	// Complete creates the real user after the ordered session guards pass.
	Complete(ctx context.Context, sess SessionContext, req CompleteRequest) (*domain.User, error)
}

type service struct {
	users    UserStore
	verifier verification.Service
	now      func() time.Time
}

func NewService(users UserStore, verifier verification.Service) Service {
	return &service{users: users, verifier: verifier, now: time.Now}
}

// NewServiceWithClock is NewService with an injected host clock, for tests of
// the session-level (not code-level) expiry.
func NewServiceWithClock(users UserStore, verifier verification.Service, now func() time.Time) Service {
	return &service{users: users, verifier: verifier, now: now}
}

func (s *service) Start(ctx context.Context, sess SessionContext, req StartRequest) error {
	if req.Username != "" {
		if err := s.ensureUsernameFree(ctx, req.Username); err != nil {
			return err
		}
	}
	if err := s.ensureEmailFree(ctx, req.Email, "Email already registered. Please use a different email."); err != nil {
		return err
	}

	temp := id.NewPending()
	sess.SetPreRegistration(&domain.PreRegistration{
		TempUserID: string(temp),
		Email:      req.Email,
		Username:   req.Username,
		Timestamp:  s.now().Unix(),
	})
	return s.verifier.Issue(ctx, temp, req.Email, domain.PurposePreRegistration)
}

func (s *service) VerifyCode(ctx context.Context, sess SessionContext, req VerifyRequest) error {
	p := sess.PreRegistration()
	if p == nil || p.TempUserID == "" || p.Email != req.Email {
		// Session lost or pointing at another email; fall back to the store
		// and rebuild the slot around the recovered subject.
		recovered, err := s.verifier.RecoverPendingSubject(ctx, req.Email)
		if err != nil {
			return err
		}
		p = &domain.PreRegistration{
			TempUserID: string(recovered),
			Email:      req.Email,
			Timestamp:  s.now().Unix(),
		}
		sess.SetPreRegistration(p)
	}

	outcome, err := s.verifier.Verify(ctx, domain.PendingUser(p.TempUserID), req.Email, req.OTP, domain.PurposePreRegistration)
	if err != nil {
		return err
	}
	if err := outcome.Reject(); err != nil {
		return err
	}

	p.Verified = true
	p.OTP = req.OTP
	sess.SetPreRegistration(p)
	return nil
}

func (s *service) Resend(ctx context.Context, sess SessionContext, req ResendRequest) error {
	p := sess.PreRegistration()
	if p == nil || p.Email != req.Email || p.Expired(s.now()) {
		p = &domain.PreRegistration{
			TempUserID: string(id.NewPending()),
			Email:      req.Email,
			Timestamp:  s.now().Unix(),
		}
		sess.SetPreRegistration(p)
	}

	subject := domain.PendingUser(p.TempUserID)
	if err := s.verifier.Discard(ctx, subject, req.Email, domain.PurposePreRegistration); err != nil {
		// Cleanup only; lookups always take the most recent row.
		slog.Warn("failed to discard outstanding pre-registration codes", "email", req.Email, "err", err)
	}
	return s.verifier.Issue(ctx, subject, req.Email, domain.PurposePreRegistration)
}

func (s *service) Complete(ctx context.Context, sess SessionContext, req CompleteRequest) (*domain.User, error) {
	p := sess.PreRegistration()
	switch {
	case p == nil:
		return nil, domain.E(domain.ErrUnauthorized, "Invalid or expired verification session")
	case p.Email != req.Email:
		return nil, domain.E(domain.ErrUnauthorized, "Email mismatch in verification session")
	case !p.Verified:
		return nil, domain.E(domain.ErrUnauthorized, "Email verification incomplete")
	case p.Expired(s.now()):
		return nil, domain.E(domain.ErrUnauthorized, "Verification session has expired")
	case p.OTP != req.OTP:
		return nil, domain.E(domain.ErrUnauthorized, "Invalid verification code")
	}

	// Race guard: a concurrent registration may have claimed the email since
	// the pre-check; the unique constraint backs this up below.
	if err := s.ensureEmailFree(ctx, req.Email, "Email already exists"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, req.Username, req.Email, string(hash), true)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.E(domain.ErrConflict, "Email already exists")
		}
		return nil, err
	}

	subject := domain.PendingUser(p.TempUserID)
	if err := s.verifier.Discard(ctx, subject, req.Email, domain.PurposePreRegistration); err != nil {
		slog.Warn("failed to delete consumed pre-registration records", "email", req.Email, "err", err)
	}
	sess.ClearPreRegistration()
	return u, nil
}

func (s *service) ensureEmailFree(ctx context.Context, email, msg string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.E(domain.ErrConflict, msg)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *service) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.E(domain.ErrConflict, "Username already exists. Please choose a different username.")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
