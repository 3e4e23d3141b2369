package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Fokku/flightbooker/internal/domain"
)

type Store interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, req domain.UpdateProfileRequest) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type Service interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	// UpdateProfile applies the supplied fields after checking that a changed
	// email or username is not already taken by another account.
	UpdateProfile(ctx context.Context, id int64, req domain.UpdateProfileRequest) (*domain.User, error)
	// UpdatePassword requires the current password before installing the new
	// hash.
	UpdatePassword(ctx context.Context, id int64, req domain.UpdatePasswordRequest) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id int64, req domain.UpdateProfileRequest) (*domain.User, error) {
	if req.Email != nil {
		other, err := s.store.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err == nil && other.ID != id {
			return nil, domain.E(domain.ErrConflict, "Email already exists")
		}
	}
	if req.Username != nil {
		other, err := s.store.GetByUsername(ctx, *req.Username)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err == nil && other.ID != id {
			return nil, domain.E(domain.ErrConflict, "Username already exists. Please choose a different username.")
		}
	}

	u, err := s.store.UpdateProfile(ctx, id, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdatePassword(ctx context.Context, id int64, req domain.UpdatePasswordRequest) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, "User not found")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.E(domain.ErrUnauthorized, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, string(hash))
}
