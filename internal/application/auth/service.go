package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Fokku/flightbooker/internal/application/verification"
	"github.com/Fokku/flightbooker/internal/domain"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID int64) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type Service interface {
	// Login checks the credentials and returns the user on success. The same
	// message covers unknown email and wrong password.
	Login(ctx context.Context, req LoginRequest) (*domain.User, error)
	// ForgotPassword issues a password reset code to a known account.
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	// ResetPassword verifies the reset code and installs a new password hash.
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	// RequestEmailVerification issues a verification code to a logged-in user
	// whose email is still unconfirmed.
	RequestEmailVerification(ctx context.Context, userID int64, email string) error
	// VerifyEmail checks the code and flips the account's verified flag.
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
}

type service struct {
	users    UserStore
	verifier verification.Service
}

func NewService(users UserStore, verifier verification.Service) Service {
	return &service{users: users, verifier: verifier}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrUnauthorized, "Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.E(domain.ErrUnauthorized, "Invalid email or password")
	}
	slog.Info("user logged in", "user_id", u.ID)
	return u, nil
}

func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "User not found")
		}
		return err
	}
	return s.verifier.Issue(ctx, domain.RealUser(u.ID), req.Email, domain.PurposePasswordReset)
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "User not found")
		}
		return err
	}

	outcome, err := s.verifier.Verify(ctx, domain.RealUser(u.ID), req.Email, req.OTP, domain.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := outcome.Reject(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}
	slog.Info("password reset completed", "user_id", u.ID)
	return nil
}

func (s *service) RequestEmailVerification(ctx context.Context, userID int64, email string) error {
	return s.verifier.Issue(ctx, domain.RealUser(userID), email, domain.PurposeRegistration)
}

func (s *service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "User not found")
		}
		return err
	}

	outcome, err := s.verifier.Verify(ctx, domain.RealUser(u.ID), req.Email, req.OTP, domain.PurposeRegistration)
	if err != nil {
		return err
	}
	if err := outcome.Reject(); err != nil {
		return err
	}
	return s.users.SetEmailVerified(ctx, u.ID)
}
