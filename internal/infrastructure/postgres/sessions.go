package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

// SessionRepo persists cookie sessions. The pre-registration slot is stored
// as JSONB so the single-slot contract survives restarts and load balancing.
type SessionRepo struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type sessionRow struct {
	ID        string          `db:"id"`
	UserID    *int64          `db:"user_id"`
	Username  string          `db:"username"`
	Role      string          `db:"role"`
	PreReg    json.RawMessage `db:"pre_registration"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, user_id, username, role, pre_registration, created_at, updated_at
		FROM sessions WHERE id = $1`, id)
	if err != nil {
		return nil, classify(err)
	}
	s := &domain.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Username:  row.Username,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.PreReg) > 0 {
		var p domain.PreRegistration
		if err := json.Unmarshal(row.PreReg, &p); err != nil {
			return nil, err
		}
		s.PreReg = &p
	}
	return s, nil
}

// Upsert writes the full session state, creating the row on first save.
func (r *SessionRepo) Upsert(ctx context.Context, s *domain.Session) error {
	var preReg any
	if s.PreReg != nil {
		b, err := json.Marshal(s.PreReg)
		if err != nil {
			return err
		}
		preReg = b
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, username, role, pre_registration)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			pre_registration = EXCLUDED.pre_registration,
			updated_at = (now() AT TIME ZONE 'utc')`,
		s.ID, s.UserID, s.Username, s.Role, preReg)
	return classify(err)
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return classify(err)
	}
	return nil
}
