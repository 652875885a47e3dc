// Package memory is an in-process implementation of the repository used for
// local runs without PostgreSQL (DB_DRIVER=memory) and in tests. It enforces
// the same constraints as the SQL schema: unique usernames, one wallet row
// per user, posts referencing existing users.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository"
)

// Store is a mutex-guarded in-memory repository
type Store struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	posts    map[int64]*models.Post
	wallets  map[int64]*models.Wallet
	sessions map[string]models.Session
	nextUser int64
	nextPost int64
	now      func() time.Time
}

// New returns an empty store
func New() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		posts:    make(map[int64]*models.Post),
		wallets:  make(map[int64]*models.Wallet),
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// CreateUser stores a user and assigns its id
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usernameTaken(user.Username, 0) {
		return repository.ErrDuplicate
	}
	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = s.now()
	u := *user
	s.users[u.ID] = &u
	return nil
}

// FindUserByUsername retrieves a user by username
func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// FindUserByID retrieves a user by id
func (s *Store) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

// UpdatePasswordHash replaces a user's password hash
func (s *Store) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	return s.updateUser(id, func(u *models.User) error {
		u.PasswordHash = hash
		return nil
	})
}

// UpdateUsername renames a user, failing with ErrDuplicate if another user
// holds the name
func (s *Store) UpdateUsername(_ context.Context, id int64, username string) error {
	return s.updateUser(id, func(u *models.User) error {
		if s.usernameTaken(username, id) {
			return repository.ErrDuplicate
		}
		u.Username = username
		return nil
	})
}

// UpdateBio replaces a user's bio
func (s *Store) UpdateBio(_ context.Context, id int64, bio string) error {
	return s.updateUser(id, func(u *models.User) error {
		u.Bio = bio
		return nil
	})
}

// updateUser runs fn on the stored user with the lock held
func (s *Store) updateUser(id int64, fn func(*models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	return fn(u)
}

func (s *Store) usernameTaken(username string, except int64) bool {
	for id, u := range s.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

// CreatePost stores a post and assigns its id and creation time
func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[post.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	s.nextPost++
	post.ID = s.nextPost
	post.Created = s.now()
	p := *post
	s.posts[p.ID] = &p
	return nil
}

// FindPostByID retrieves a post joined with its author
func (s *Store) FindPostByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.joined(p), nil
}

// ListPosts returns all posts, newest first
func (s *Store) ListPosts(context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, *s.joined(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Created.Equal(posts[j].Created) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].Created.After(posts[j].Created)
	})
	return posts, nil
}

func (s *Store) joined(p *models.Post) *models.Post {
	c := *p
	if u, ok := s.users[p.AuthorID]; ok {
		c.Username = u.Username
	}
	return &c
}

// UpdatePost replaces a post's title and body
func (s *Store) UpdatePost(_ context.Context, id int64, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Title = title
	p.Body = body
	return nil
}

// DeletePost removes a post
func (s *Store) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// UpsertWallet sets one address, creating the user's wallet if needed
func (s *Store) UpsertWallet(_ context.Context, userID int64, currency models.Currency, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		w = &models.Wallet{UserID: userID}
		s.wallets[userID] = w
	}
	switch currency {
	case models.BTC:
		w.BTC = address
	case models.XMR:
		w.XMR = address
	}
	return nil
}

// FindWallet returns the user's addresses
func (s *Store) FindWallet(_ context.Context, userID int64) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *w
	return &c, nil
}

// WalletCount returns the number of wallet rows
func (s *Store) WalletCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wallets)
}

// CreateSession stores a session
func (s *Store) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.CreatedAt = s.now()
	s.sessions[sess.Token] = *sess
	return nil
}

// FindSessionUser returns the user behind a live session token
func (s *Store) FindSessionUser(_ context.Context, token string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, repository.ErrNotFound
	}
	u, ok := s.users[sess.UserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

// DeleteSession removes a single session
func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// DeleteUserSessions removes every session belonging to a user
func (s *Store) DeleteUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now
func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

// SessionCount returns the number of stored sessions for userID
func (s *Store) SessionCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			n++
		}
	}
	return n
}

// HasUsername reports whether any user currently has the name
func (s *Store) HasUsername(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usernameTaken(strings.TrimSpace(username), 0)
}
