package id

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/Fokku/flightbooker/internal/domain"
)

// New generates a new ULID string. ULIDs are lexicographically sortable by
// creation time, which suits session ids.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewPending mints a synthetic subject id for a registration attempt that has
// no user row yet. The id only needs to disambiguate attempts; it is not a
// security boundary.
func NewPending() domain.PendingUser {
	return domain.PendingUser(domain.PendingIDPrefix + strings.ToLower(New()))
}
