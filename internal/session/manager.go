package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Fokku/flightbooker/internal/config"
	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/pkg/id"
)

// Repository is the minimal persistence interface the manager requires.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Upsert(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// Manager binds server-side session rows to a signed cookie. The cookie value
// is an HS256 JWT carrying nothing but the session id and an expiry, so the
// id cannot be forged or enumerated.
type Manager struct {
	repo       Repository
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(repo Repository, cfg *config.Config) *Manager {
	return &Manager{
		repo:       repo,
		secret:     []byte(cfg.SessionSecret),
		cookieName: cfg.SessionCookieName,
		ttl:        cfg.SessionTTL,
		secure:     cfg.SecureCookies,
	}
}

type sidClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Load returns the session identified by the request cookie, or a fresh
// unsaved session when the cookie is absent, invalid, or references a row
// that no longer exists.
func (m *Manager) Load(r *http.Request) *domain.Session {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return m.fresh()
	}
	sid, err := m.verify(c.Value)
	if err != nil {
		return m.fresh()
	}
	s, err := m.repo.Get(r.Context(), sid)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			// Treat a storage failure like a missing session; the request
			// will fail later with a proper message if storage stays down.
			return m.fresh()
		}
		return m.fresh()
	}
	return s
}

// Save persists the session and (re)issues the cookie. Must run before the
// response body is written.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *domain.Session) error {
	if err := m.repo.Upsert(ctx, s); err != nil {
		return err
	}
	token, err := m.sign(s.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy deletes the row and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *domain.Session) error {
	if err := m.repo.Delete(ctx, s.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) fresh() *domain.Session {
	return &domain.Session{ID: id.New()}
}

func (m *Manager) sign(sid string) (string, error) {
	claims := sidClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) verify(token string) (string, error) {
	var claims sidClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.SID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.SID, nil
}
