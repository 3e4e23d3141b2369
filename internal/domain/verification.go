package domain

import "time"

// VerificationPurpose is a closed tag; a code issued for one purpose never
// validates for another.
type VerificationPurpose string

const (
	PurposeRegistration    VerificationPurpose = "registration"
	PurposePreRegistration VerificationPurpose = "pre_registration"
	PurposePasswordReset   VerificationPurpose = "password_reset"
)

// Valid reports whether p is one of the known purposes.
func (p VerificationPurpose) Valid() bool {
	switch p {
	case PurposeRegistration, PurposePreRegistration, PurposePasswordReset:
		return true
	}
	return false
}

// VerificationRecord is one issued code. Multiple outstanding records may
// exist for the same subject/email/purpose; lookups take the most recent.
// ExpiresAt and CreatedAt are UTC and are only ever compared against the
// database's own clock.
type VerificationRecord struct {
	ID        int64               `db:"id" json:"id"`
	SubjectID string              `db:"user_id" json:"user_id"`
	Email     string              `db:"email" json:"email"`
	Code      string              `db:"otp" json:"otp"`
	Purpose   VerificationPurpose `db:"type" json:"type"`
	ExpiresAt time.Time           `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}

// CodeTTL is how long an issued code stays valid.
const CodeTTL = 15 * time.Minute

// PreRegistration is the single-slot, session-held state of an in-progress
// anonymous registration attempt.
type PreRegistration struct {
	TempUserID string `json:"temp_user_id"`
	Email      string `json:"email"`
	Username   string `json:"username,omitempty"`
	Timestamp  int64  `json:"timestamp"` // Unix seconds at slot creation
	Verified   bool   `json:"verified"`
	OTP        string `json:"otp,omitempty"` // the code that passed verification
}

// PreRegistrationTTL bounds the session-side attempt independently of the
// 15-minute code expiry.
const PreRegistrationTTL = time.Hour

// Expired reports whether the slot is older than PreRegistrationTTL at now.
func (p *PreRegistration) Expired(now time.Time) bool {
	return now.Unix()-p.Timestamp > int64(PreRegistrationTTL.Seconds())
}
