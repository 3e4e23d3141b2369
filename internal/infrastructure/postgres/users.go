package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Fokku/flightbooker/internal/domain"
)

const userColumns = `id, username, email, password, role, email_verified, created_at`

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user row. Unique constraints on username and email back
// the advisory pre-checks; a violation surfaces as ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, emailVerified bool) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `
		INSERT INTO users (username, email, password, role, email_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		username, email, passwordHash, domain.RoleUser, emailVerified)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, passwordHash, id); err != nil {
		return classify(err)
	}
	return nil
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, id); err != nil {
		return classify(err)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of req.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, req domain.UpdateProfileRequest) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET username = COALESCE($1, username),
		    email    = COALESCE($2, email)
		WHERE id = $3
		RETURNING `+userColumns,
		req.Username, req.Email, id)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}
