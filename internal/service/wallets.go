package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/quillpost/internal/models"
	"github.com/Dan9191/quillpost/internal/repository"
)

const maxAddressLen = 128

// ParseCurrency maps a route or form value to a supported currency
func ParseCurrency(v string) (models.Currency, bool) {
	switch c := models.Currency(strings.ToLower(v)); c {
	case models.BTC, models.XMR:
		return c, true
	}
	return "", false
}

// UpsertWallet stores a donation address for the user, replacing any earlier one
func (s *Service) UpsertWallet(ctx context.Context, userID int64, currency models.Currency, address string) error {
	if _, ok := ParseCurrency(string(currency)); !ok {
		return validation("Unsupported currency.")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return validation("Address is required.")
	}
	if utf8.RuneCountInString(address) > maxAddressLen {
		return validation("Address is too long.")
	}

	if err := s.repo.UpsertWallet(ctx, userID, currency, address); err != nil {
		return err
	}

	s.log.Infof("Updated %s address for user %d", strings.ToUpper(string(currency)), userID)
	return nil
}

// Wallet returns the user's stored addresses; unset addresses are empty
func (s *Service) Wallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	w, err := s.repo.FindWallet(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Wallet{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
