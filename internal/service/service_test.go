package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/quillpost/internal/config"
	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository/memory"
	"github.com/Dan9191/quillpost/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memory.New()
	svc := NewService(store, log, config.Defaults())
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, store
}

func mustRegister(t *testing.T, svc *Service, username, password string) session.Identity {
	t.Helper()
	u, err := svc.Register(context.Background(), username, password)
	require.NoError(t, err)
	return session.Identity{User: u}
}

func mustPost(t *testing.T, svc *Service, ident session.Identity, title, body string) *models.Post {
	t.Helper()
	p, err := svc.CreatePost(context.Background(), ident, title, body)
	require.NoError(t, err)
	return p
}
