package domain

import "time"

// Session is a server-side, cookie-identified session row. The cookie carries
// only a signed session id; all state lives here. PreReg is the single
// pre-registration slot this application touches.
type Session struct {
	ID        string           `db:"id" json:"id"`
	UserID    *int64           `db:"user_id" json:"user_id,omitempty"`
	Username  string           `db:"username" json:"username,omitempty"`
	Role      string           `db:"role" json:"role,omitempty"`
	PreReg    *PreRegistration `db:"-" json:"-"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

func (s *Session) LoggedIn() bool { return s.UserID != nil }

func (s *Session) IsAdmin() bool { return s.LoggedIn() && s.Role == RoleAdmin }

// SetUser records a successful login.
func (s *Session) SetUser(u *User) {
	uid := u.ID
	s.UserID = &uid
	s.Username = u.Username
	s.Role = u.Role
}

// ClearUser drops the login state, keeping the session row itself.
func (s *Session) ClearUser() {
	s.UserID = nil
	s.Username = ""
	s.Role = ""
}

// PreRegistration, SetPreRegistration and ClearPreRegistration give services
// slot access without exposing the rest of the session.

func (s *Session) PreRegistration() *PreRegistration { return s.PreReg }

func (s *Session) SetPreRegistration(p *PreRegistration) { s.PreReg = p }

func (s *Session) ClearPreRegistration() { s.PreReg = nil }
