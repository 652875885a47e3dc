package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "Incorrect username/password."

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validation("Username is required.")
	}
	if password == "" {
		return nil, validation("Password is required.")
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict(fmt.Sprintf("User %s is already registered.", username))
		}
		return nil, err
	}

	s.log.Infof("User registered: %d", user.ID)
	return user, nil
}

// Authenticate verifies credentials. Unknown users and wrong passwords fail
// with the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized(msgBadCredentials)
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, unauthorized(msgBadCredentials)
	}

	s.log.Infof("User logged in: %d", user.ID)
	return user, nil
}

// ChangePassword replaces the user's password after verifying the old one
func (s *Service) ChangePassword(ctx context.Context, userID int64, old, newPassword, confirmation string) error {
	if old == "" || newPassword == "" || confirmation == "" {
		return validation("Please fill the required fields.")
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !checkPassword(user.PasswordHash, old) {
		return unauthorized("Incorrect password.")
	}
	if newPassword != confirmation {
		return validation("Passwords do not match.")
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.log.Infof("Password changed for user %d", userID)
	return nil
}

// ChangeUsername renames the user after re-verifying their password
func (s *Service) ChangeUsername(ctx context.Context, userID int64, newUsername, password string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return validation("Username is required.")
	}
	if password == "" {
		return validation("Password is required.")
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return unauthorized("Incorrect password.")
	}

	if err := s.repo.UpdateUsername(ctx, userID, newUsername); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return conflict(fmt.Sprintf("User %s is already registered.", newUsername))
		}
		return err
	}

	s.log.Infof("Username changed for user %d", userID)
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validation("Password must be at most 72 bytes.")
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
