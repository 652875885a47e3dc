package service

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository"
	"github.com/Dan9191/quillpost/internal/sanitize"
	"github.com/Dan9191/quillpost/internal/session"
)

// PostView is a post ready for an HTML context. SafeBody is the sanitized
// body; Body still holds the raw text for edit forms.
type PostView struct {
	models.Post
	SafeBody template.HTML
	Owned    bool
}

// Render sanitizes a post body for display to ident
func Render(p models.Post, ident session.Identity) PostView {
	return PostView{
		Post:     p,
		SafeBody: sanitize.HTML(p.Body),
		Owned:    !ident.Anonymous() && p.AuthorID == ident.UserID(),
	}
}

// ListPosts returns every post newest first, bodies sanitized
func (s *Service) ListPosts(ctx context.Context, ident session.Identity) ([]PostView, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, Render(p, ident))
	}
	return views, nil
}

// LoadPost fetches a post. With enforceOwnership it fails with ErrForbidden
// unless ident is the author.
func (s *Service) LoadPost(ctx context.Context, postID int64, ident session.Identity, enforceOwnership bool) (*models.Post, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if enforceOwnership && (ident.Anonymous() || post.AuthorID != ident.UserID()) {
		return nil, ErrForbidden
	}
	return post, nil
}

// CreatePost stores a new post authored by ident
func (s *Service) CreatePost(ctx context.Context, ident session.Identity, title, body string) (*models.Post, error) {
	if ident.Anonymous() {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validation("Title is required.")
	}

	post := &models.Post{
		Title:    title,
		Body:     body,
		AuthorID: ident.UserID(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.Infof("Post %d created by user %d", post.ID, post.AuthorID)
	return post, nil
}

// UpdatePost replaces title and body of a post owned by ident
func (s *Service) UpdatePost(ctx context.Context, postID int64, ident session.Identity, title, body string) error {
	if _, err := s.LoadPost(ctx, postID, ident, true); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return validation("Title is required.")
	}
	if err := s.repo.UpdatePost(ctx, postID, title, body); err != nil {
		return err
	}

	s.log.Infof("Post %d updated by user %d", postID, ident.UserID())
	return nil
}

// DeletePost removes a post owned by ident
func (s *Service) DeletePost(ctx context.Context, postID int64, ident session.Identity) error {
	if _, err := s.LoadPost(ctx, postID, ident, true); err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.Infof("Post %d deleted by user %d", postID, ident.UserID())
	return nil
}
