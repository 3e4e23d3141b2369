package domain

import "strconv"

// PendingIDPrefix tags synthetic subject ids for accounts that do not exist
// yet. The prefix keeps them distinguishable from numeric user ids inside the
// shared user_id column.
const PendingIDPrefix = "pre_"

// Subject identifies the account a verification code belongs to. It is either
// a confirmed user (numeric id) or a pending registration (synthetic
// pre_-prefixed id). Both serialize into the same text column.
type Subject interface {
	// StorageID is the value written to email_verifications.user_id.
	StorageID() string
}

// RealUser is a confirmed account identity.
type RealUser int64

func (u RealUser) StorageID() string { return strconv.FormatInt(int64(u), 10) }

// PendingUser is a not-yet-created account identity minted at
// pre-registration time.
type PendingUser string

func (p PendingUser) StorageID() string { return string(p) }
