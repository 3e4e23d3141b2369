package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/pkg/otp"
)

// Store is the persistence surface of the engine. Expiry filtering inside
// FindValid and the Now clock must both come from the storage backend's own
// UTC clock.
type Store interface {
	Now(ctx context.Context) (time.Time, error)
	Issue(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error)
	FindValid(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error)
	FindLatest(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error)
	Consume(ctx context.Context, recordID int64) error
	LatestFor(ctx context.Context, email string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error)
	DeleteFor(ctx context.Context, subjectID, email string, purpose domain.VerificationPurpose) error
}

// Notifier delivers a code to the user. In development this is the email log
// file; in production a real SMTP transport.
type Notifier interface {
	Send(to, subject, body string) error
}

// Outcome is the result of checking a submitted code.
type Outcome int

const (
	// OutcomeVerified: the code matched an unexpired record, now consumed.
	OutcomeVerified Outcome = iota
	// OutcomeExpired: the code matched a record whose expiry has passed.
	OutcomeExpired
	// OutcomeInvalid: nothing matches subject/email/code/purpose at all.
	// A previously consumed code lands here, not in OutcomeExpired.
	OutcomeInvalid
)

// Reject maps a non-verified outcome to its user-facing error.
func (o Outcome) Reject() error {
	switch o {
	case OutcomeVerified:
		return nil
	case OutcomeExpired:
		return domain.E(domain.ErrUnauthorized, "Verification code has expired")
	default:
		return domain.E(domain.ErrUnauthorized, "Invalid verification code")
	}
}

// DevCode is the development-only lookup result.
type DevCode struct {
	Code      string                     `json:"otp"`
	Record    *domain.VerificationRecord `json:"record"`
	IsExpired bool                       `json:"is_expired"`
}

type Service interface {
	// Issue generates, stores and delivers a code. A delivery failure is
	// soft: the row stays in place and simply expires unused.
	Issue(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error
	// Verify checks a submitted code and consumes the record on success.
	// The returned error is set only for storage failures.
	Verify(ctx context.Context, subject domain.Subject, email, code string, purpose domain.VerificationPurpose) (Outcome, error)
	// RecoverPendingSubject adopts the most recent pre-registration subject
	// for an email when the caller's session slot was lost.
	RecoverPendingSubject(ctx context.Context, email string) (domain.PendingUser, error)
	// Discard removes outstanding codes for a subject/email/purpose.
	Discard(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error
	// LatestCode returns the most recently issued code for an email/purpose.
	// Rejected outright unless the service was built with development=true.
	LatestCode(ctx context.Context, email string, purpose domain.VerificationPurpose) (*DevCode, error)
}

type service struct {
	store       Store
	notifier    Notifier
	development bool
}

func NewService(store Store, notifier Notifier, development bool) Service {
	return &service{store: store, notifier: notifier, development: development}
}

func (s *service) Issue(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error {
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if _, err := s.store.Issue(ctx, subject.StorageID(), email, code, purpose); err != nil {
		return err
	}
	if err := s.notifier.Send(email, subjectLine(purpose), body(purpose, code)); err != nil {
		// The row already exists and will expire unused; report the failed
		// delivery without rolling back.
		slog.Warn("verification email delivery failed", "email", email, "type", purpose, "err", err)
		return domain.Wrap(domain.ErrUnavailable, "Failed to send verification email", err)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, subject domain.Subject, email, code string, purpose domain.VerificationPurpose) (Outcome, error) {
	rec, err := s.store.FindValid(ctx, subject.StorageID(), email, code, purpose)
	if err == nil {
		if err := s.store.Consume(ctx, rec.ID); err != nil {
			slog.Warn("failed to consume verification record", "id", rec.ID, "err", err)
		}
		return OutcomeVerified, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return OutcomeInvalid, err
	}

	// No valid row. A matching row without the expiry filter means the code
	// was right but stale; none at all means the code is simply wrong (or
	// was already consumed).
	if _, err := s.store.FindLatest(ctx, subject.StorageID(), email, code, purpose); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return OutcomeInvalid, nil
		}
		return OutcomeInvalid, err
	}
	return OutcomeExpired, nil
}

func (s *service) RecoverPendingSubject(ctx context.Context, email string) (domain.PendingUser, error) {
	rec, err := s.store.LatestFor(ctx, email, domain.PurposePreRegistration)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.E(domain.ErrNotFound, "No registration in progress for this email")
		}
		return "", err
	}
	slog.Info("recovered pre-registration subject from store", "email", email)
	return domain.PendingUser(rec.SubjectID), nil
}

func (s *service) Discard(ctx context.Context, subject domain.Subject, email string, purpose domain.VerificationPurpose) error {
	return s.store.DeleteFor(ctx, subject.StorageID(), email, purpose)
}

func (s *service) LatestCode(ctx context.Context, email string, purpose domain.VerificationPurpose) (*DevCode, error) {
	if !s.development {
		return nil, domain.E(domain.ErrForbidden, "This endpoint is only available in development environments")
	}
	if !purpose.Valid() {
		return nil, domain.E(domain.ErrBadRequest, fmt.Sprintf("Invalid OTP type: %s", purpose))
	}
	rec, err := s.store.LatestFor(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "No OTP records found for this email address")
		}
		return nil, err
	}
	now, err := s.store.Now(ctx)
	if err != nil {
		return nil, err
	}
	return &DevCode{Code: rec.Code, Record: rec, IsExpired: rec.ExpiresAt.Before(now)}, nil
}
