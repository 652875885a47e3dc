package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/quillpost/internal/models"
)

// walletColumns whitelists the crypto table column per currency. Column names
// are never taken from user input.
var walletColumns = map[models.Currency]string{
	models.BTC: "btc",
	models.XMR: "xmr",
}

// UpsertWallet stores an address for the given currency in a single
// statement, inserting the user's row if it does not exist yet.
func (r *Repository) UpsertWallet(ctx context.Context, userID int64, currency models.Currency, address string) error {
	column, ok := walletColumns[currency]
	if !ok {
		return fmt.Errorf("unsupported currency %q", currency)
	}
	query := fmt.Sprintf(`
		INSERT INTO crypto (user_id, %[1]s)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s`, column)
	if _, err := r.db.ExecContext(ctx, query, userID, address); err != nil {
		return fmt.Errorf("failed to upsert %s address: %w", column, err)
	}
	return nil
}

// FindWallet returns the user's stored addresses, or ErrNotFound when none
// were ever submitted
func (r *Repository) FindWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		SELECT btc, xmr
		FROM crypto
		WHERE user_id = $1`
	var btc, xmr sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&btc, &xmr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	return &models.Wallet{UserID: userID, BTC: btc.String, XMR: xmr.String}, nil
}
