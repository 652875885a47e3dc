// Package session keeps server-side login sessions. The client holds only an
// opaque random token in a cookie; the token maps to a user id in the store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dan9191/quillpost/internal/config"
	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository"
	"github.com/sirupsen/logrus"
)

// CookieName is the name of the session cookie
const CookieName = "session"

// LoginPath is where RequireIdentity sends anonymous visitors
const LoginPath = "/auth/login"

// Store persists sessions. *repository.Repository implements it.
type Store interface {
	CreateSession(ctx context.Context, s *models.Session) error
	FindSessionUser(ctx context.Context, token string, now time.Time) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Identity is the actor behind a request. The zero value is anonymous.
type Identity struct {
	User *models.User
}

// Anonymous reports whether no user is logged in
func (i Identity) Anonymous() bool { return i.User == nil }

// UserID returns the logged in user's id, or 0 when anonymous
func (i Identity) UserID() int64 {
	if i.User == nil {
		return 0
	}
	return i.User.ID
}

// Manager establishes, resolves and terminates sessions
type Manager struct {
	store  Store
	log    *logrus.Logger
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager
func NewManager(store Store, log *logrus.Logger, cfg *config.Config) *Manager {
	return &Manager{
		store:  store,
		log:    log,
		ttl:    cfg.SessionTTL,
		secure: cfg.CookieSecure,
		now:    time.Now,
	}
}

// Establish issues a fresh session for userID, replacing any session the
// request already carried.
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64) error {
	if token := tokenFrom(r); token != "" {
		if err := m.store.DeleteSession(ctx, token); err != nil {
			return err
		}
	}

	token, err := newToken()
	if err != nil {
		return err
	}
	s := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(token, s.ExpiresAt))
	return nil
}

// Resolve looks up the identity for the request's session cookie. Missing,
// expired and stale tokens resolve to an anonymous identity.
func (m *Manager) Resolve(r *http.Request) Identity {
	token := tokenFrom(r)
	if token == "" {
		return Identity{}
	}
	user, err := m.store.FindSessionUser(r.Context(), token, m.now())
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.log.WithError(err).Error("Failed to resolve session")
		}
		return Identity{}
	}
	return Identity{User: user}
}

// Terminate clears the request's session on both sides
func (m *Manager) Terminate(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0)))
	if token := tokenFrom(r); token != "" {
		return m.store.DeleteSession(r.Context(), token)
	}
	return nil
}

// TerminateAll removes every session of a user
func (m *Manager) TerminateAll(ctx context.Context, userID int64) error {
	return m.store.DeleteUserSessions(ctx, userID)
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

func tokenFrom(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
