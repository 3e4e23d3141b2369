package handler

import (
	"context"
	"time"

	"github.com/Fokku/flightbooker/internal/config"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/session"
)

// memSessionRepo backs the session manager in handler tests.
type memSessionRepo struct {
	rows map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{rows: make(map[string]*domain.Session)}
}

func (m *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) Upsert(_ context.Context, s *domain.Session) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func newTestSessions(repo session.Repository) *session.Manager {
	return session.NewManager(repo, &config.Config{
		SessionSecret:     "test-secret",
		SessionCookieName: "fb_session",
		SessionTTL:        time.Hour,
	})
}
