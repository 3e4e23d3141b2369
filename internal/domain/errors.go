package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can classify failures without leaking
// infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("unavailable")
)

// userError carries an exact user-facing message on top of a sentinel class,
// optionally retaining the underlying cause for operator logs.
type userError struct {
	class error
	msg   string
	cause error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.class
}

func (e *userError) Is(target error) bool { return errors.Is(e.class, target) }

// E wraps a sentinel with a message that is safe to return to clients.
// errors.Is against the sentinel still works on the result.
func E(class error, msg string) error {
	return &userError{class: class, msg: msg}
}

// Wrap is E with the triggering error kept for logging. The cause is never
// shown to clients.
func Wrap(class error, msg string, cause error) error {
	return &userError{class: class, msg: msg, cause: cause}
}

// IsUserFacing reports whether err carries a message produced via E.
// Handlers echo such messages verbatim; anything else is logged and replaced
// with a generic one.
func IsUserFacing(err error) bool {
	var ue *userError
	return errors.As(err, &ue)
}
