package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
// The item map is stored as a single JSONB column per user.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get returns the user's cart, empty map when absent.
func (r *cartRepository) Get(ctx context.Context, userID int64) (model.CartItems, error) {
	query := `
		SELECT items
		FROM carts
		WHERE user_id = $1
	`

	var raw []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CartItems{}, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return decodeItems(raw)
}

// Set overwrites the user's cart, creating the row if absent.
func (r *cartRepository) Set(ctx context.Context, userID int64, items model.CartItems) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO carts (user_id, items)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items
	`

	if _, err := r.pool.Exec(ctx, query, userID, raw); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to set cart")
		return fmt.Errorf("failed to set cart: %w", err)
	}

	return nil
}

// Clear removes the user's cart row. Clearing a missing cart is a no-op.
func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM carts
		WHERE user_id = $1
	`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Int64("user_id", userID).Msg("cart cleared")

	return nil
}

// Update applies fn to the user's cart inside a single transaction with the
// cart row locked. Concurrent mutations for the same user serialize on the
// row lock, so no increment is ever lost.
func (r *cartRepository) Update(ctx context.Context, userID int64, fn func(model.CartItems) model.CartItems) (model.CartItems, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to begin cart transaction")
		return nil, fmt.Errorf("failed to begin cart transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback cart transaction")
			}
		}
	}()

	// The row must exist before FOR UPDATE can serialize on it.
	ensure := `
		INSERT INTO carts (user_id, items)
		VALUES ($1, '{}'::jsonb)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err = tx.Exec(ctx, ensure, userID); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to ensure cart row")
		return nil, fmt.Errorf("failed to ensure cart row: %w", err)
	}

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT items FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&raw)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to lock cart row")
		return nil, fmt.Errorf("failed to lock cart row: %w", err)
	}

	items, err := decodeItems(raw)
	if err != nil {
		return nil, err
	}

	updated := fn(items)
	if updated == nil {
		updated = model.CartItems{}
	}

	raw, err = encodeItems(updated)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `UPDATE carts SET items = $2 WHERE user_id = $1`, userID, raw); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to write cart")
		return nil, fmt.Errorf("failed to write cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to commit cart transaction")
		return nil, fmt.Errorf("failed to commit cart transaction: %w", err)
	}

	return updated, nil
}

// GetForUpdate reads and locks the user's cart within the transaction.
// An absent cart returns an empty map without locking anything.
func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (model.CartItems, error) {
	var raw []byte
	err := tx.QueryRow(ctx, `SELECT items FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CartItems{}, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to lock cart row")
		return nil, fmt.Errorf("failed to lock cart row: %w", err)
	}

	return decodeItems(raw)
}

// ClearTx removes the user's cart row within the transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func decodeItems(raw []byte) (model.CartItems, error) {
	items := model.CartItems{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func encodeItems(items model.CartItems) ([]byte, error) {
	if items == nil {
		items = model.CartItems{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart items: %w", err)
	}
	return raw, nil
}
