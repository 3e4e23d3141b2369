package session

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fokku/flightbooker/internal/config"
	"github.com/Fokku/flightbooker/internal/domain"
)

type memoryRepo struct {
	rows map[string]*domain.Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]*domain.Session)}
}

func (m *memoryRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryRepo) Upsert(_ context.Context, s *domain.Session) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func newTestManager(repo Repository) *Manager {
	return NewManager(repo, &config.Config{
		SessionSecret:     "test-secret",
		SessionCookieName: "fb_session",
		SessionTTL:        time.Hour,
	})
}

func TestLoad_NoCookie_ReturnsFreshSession(t *testing.T) {
	m := newTestManager(newMemoryRepo())
	s := m.Load(httptest.NewRequest("GET", "/", nil))
	require.NotNil(t, s)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.PreRegistration())
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	s := m.Load(httptest.NewRequest("GET", "/", nil))
	s.SetPreRegistration(&domain.PreRegistration{
		TempUserID: "pre_abc", Email: "a@x.com", Timestamp: time.Now().Unix(),
	})

	w := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), w, s))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookies[0])
	loaded := m.Load(r)
	assert.Equal(t, s.ID, loaded.ID)
	require.NotNil(t, loaded.PreRegistration())
	assert.Equal(t, "pre_abc", loaded.PreRegistration().TempUserID)
	assert.Equal(t, "a@x.com", loaded.PreRegistration().Email)
}

func TestLoad_TamperedCookie_ReturnsFreshSession(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	s := m.Load(httptest.NewRequest("GET", "/", nil))
	w := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), w, s))
	cookie := w.Result().Cookies()[0]
	cookie.Value += "tampered"

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookie)
	loaded := m.Load(r)
	assert.NotEqual(t, s.ID, loaded.ID)
}

func TestDestroy_DeletesRowAndExpiresCookie(t *testing.T) {
	repo := newMemoryRepo()
	m := newTestManager(repo)

	s := m.Load(httptest.NewRequest("GET", "/", nil))
	w := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), w, s))
	require.Contains(t, repo.rows, s.ID)

	w2 := httptest.NewRecorder()
	require.NoError(t, m.Destroy(context.Background(), w2, s))
	assert.NotContains(t, repo.rows, s.ID)

	cookies := w2.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
