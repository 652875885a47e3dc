package service

import (
	"context"
	"time"

	"github.com/Dan9191/quillpost/internal/config"
	"github.com/Dan9191/quillpost/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the service depends on.
// *repository.Repository implements it.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdateBio(ctx context.Context, id int64, bio string) error

	CreatePost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, body string) error
	DeletePost(ctx context.Context, id int64) error

	UpsertWallet(ctx context.Context, userID int64, currency models.Currency, address string) error
	FindWallet(ctx context.Context, userID int64) (*models.Wallet, error)

	Ping(ctx context.Context) error
}

// Service handles business logic
type Service struct {
	repo     Store
	log      *logrus.Logger
	config   *config.Config
	hashCost int
	now      func() time.Time
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		log:      log,
		config:   cfg,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Health checks the backing store
func (s *Service) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
