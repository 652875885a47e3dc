package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/quillpost/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepository(db), mock
}

var userColumns = []string{"id", "username", "password_hash", "bio", "followers", "created_at"}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, password_hash)")).
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	u := &models.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestCreateUser_Duplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "lib/pq", err: &pq.Error{Code: "23505"}},
		{name: "pgx", err: &pgconn.PgError{Code: "23505"}},
		{name: "wrapped", err: fmt.Errorf("exec: %w", &pq.Error{Code: "23505"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery("INSERT INTO users").
				WithArgs("alice", "hash").
				WillReturnError(tt.err)

			err := repo.CreateUser(context.Background(), &models.User{Username: "alice", PasswordHash: "hash"})
			assert.ErrorIs(t, err, ErrDuplicate)
		})
	}
}

func TestCreateUser_OtherError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pq.Error{Code: "23503"})

	err := repo.CreateUser(context.Background(), &models.User{Username: "alice", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "failed to create user")
}

func TestFindUserByUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users") + `\s+WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", "hash", "hi", 3, now))

	u, err := repo.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, Username: "alice", PasswordHash: "hash", Bio: "hi", Followers: 3, CreatedAt: now}, u)
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE id = \$1`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUsername(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = $1 WHERE id = $2")).
			WithArgs("bob", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.UpdateUsername(context.Background(), 1, "bob"))
	})
	t.Run("taken", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec("UPDATE users SET username").
			WillReturnError(&pq.Error{Code: "23505"})
		assert.ErrorIs(t, repo.UpdateUsername(context.Background(), 1, "bob"), ErrDuplicate)
	})
	t.Run("missing user", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec("UPDATE users SET username").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.UpdateUsername(context.Background(), 1, "bob"), ErrNotFound)
	})
}

func TestUpdatePasswordHashAndBio(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = $1 WHERE id = $2")).
		WithArgs("newhash", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET bio = $1 WHERE id = $2")).
		WithArgs("about me", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), 2, "newhash"))
	require.NoError(t, repo.UpdateBio(context.Background(), 2, "about me"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23502"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
