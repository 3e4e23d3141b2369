package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

const verificationColumns = `id, user_id, email, otp, type, expires_at, created_at`

// VerificationRepo persists issued one-time codes. No uniqueness is enforced
// at issue time; lookups always take the most recent matching row.
type VerificationRepo struct {
	db *sqlx.DB
}

func NewVerificationRepo(db *sqlx.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

// Now exposes the authoritative clock for expiry bookkeeping outside SQL.
func (r *VerificationRepo) Now(ctx context.Context) (time.Time, error) {
	return Now(ctx, r.db)
}

// Issue inserts a new code row. The expiry is computed on the database's own
// clock, not the application host's.
func (r *VerificationRepo) Issue(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.GetContext(ctx, &rec, `
		INSERT INTO email_verifications (user_id, email, otp, type, expires_at)
		VALUES ($1, $2, $3, $4, (now() AT TIME ZONE 'utc') + make_interval(secs => $5))
		RETURNING `+verificationColumns,
		subjectID, email, code, string(purpose), domain.CodeTTL.Seconds())
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

// FindValid returns the most recent matching unexpired row, or ErrNotFound.
func (r *VerificationRepo) FindValid(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT `+verificationColumns+` FROM email_verifications
		WHERE user_id = $1 AND email = $2 AND otp = $3 AND type = $4
		  AND expires_at > (now() AT TIME ZONE 'utc')
		ORDER BY created_at DESC LIMIT 1`,
		subjectID, email, code, string(purpose))
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

// FindLatest is FindValid without the expiry filter. It lets callers tell
// "right code but expired" apart from "no such code".
func (r *VerificationRepo) FindLatest(ctx context.Context, subjectID, email, code string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT `+verificationColumns+` FROM email_verifications
		WHERE user_id = $1 AND email = $2 AND otp = $3 AND type = $4
		ORDER BY created_at DESC LIMIT 1`,
		subjectID, email, code, string(purpose))
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

// Consume deletes the row. Deleting an already-deleted row is not an error.
func (r *VerificationRepo) Consume(ctx context.Context, recordID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE id = $1`, recordID); err != nil {
		return classify(err)
	}
	return nil
}

// LatestFor returns the most recently issued row for an email/purpose pair,
// regardless of subject. Used by session recovery and the development lookup.
func (r *VerificationRepo) LatestFor(ctx context.Context, email string, purpose domain.VerificationPurpose) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT `+verificationColumns+` FROM email_verifications
		WHERE email = $1 AND type = $2
		ORDER BY created_at DESC LIMIT 1`,
		email, string(purpose))
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

// DeleteFor removes all rows for a subject/email/purpose. Best-effort cleanup
// before a resend; correctness does not depend on it.
func (r *VerificationRepo) DeleteFor(ctx context.Context, subjectID, email string, purpose domain.VerificationPurpose) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM email_verifications
		WHERE user_id = $1 AND email = $2 AND type = $3`,
		subjectID, email, string(purpose)); err != nil {
		return classify(err)
	}
	return nil
}

// DeleteExpired reaps rows whose expiry is at least grace in the past,
// against the database clock.
func (r *VerificationRepo) DeleteExpired(ctx context.Context, grace time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM email_verifications
		WHERE expires_at < (now() AT TIME ZONE 'utc') - make_interval(secs => $1)`,
		grace.Seconds())
	if err != nil {
		return 0, classify(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
