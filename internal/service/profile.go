package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Dan9191/quillpost/internal/sanitize"
	"github.com/yuin/goldmark"
)

const maxBioLen = 2000

// Profile is the account page data
type Profile struct {
	Username  string
	Bio       template.HTML // rendered and sanitized
	BioSource string
	Followers int
}

// Profile loads the account page for userID
func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	bio, err := RenderBio(user.Bio)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Username:  user.Username,
		Bio:       bio,
		BioSource: user.Bio,
		Followers: user.Followers,
	}, nil
}

// UpdateBio stores a new markdown bio
func (s *Service) UpdateBio(ctx context.Context, userID int64, bio string) error {
	if len(bio) > maxBioLen {
		return validation("Bio is too long.")
	}
	if err := s.repo.UpdateBio(ctx, userID, bio); err != nil {
		return err
	}
	s.log.Infof("Bio updated for user %d", userID)
	return nil
}

// RenderBio converts markdown to HTML and runs it through the sanitizer
func RenderBio(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render bio: %w", err)
	}
	return sanitize.HTML(buf.String()), nil
}
