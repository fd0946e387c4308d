package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schemaStatements create the four storefront tables. Carts and order item
// snapshots are stored as JSONB maps of product id to quantity.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT REFERENCES categories(id),
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		photo TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE TABLE IF NOT EXISTS carts (
		user_id BIGINT PRIMARY KEY,
		items JSONB NOT NULL DEFAULT '{}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		user_id BIGINT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		delivery_method TEXT NOT NULL DEFAULT 'standard',
		items JSONB NOT NULL,
		total NUMERIC(10,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
}

// InitSchema creates the storefront schema if it does not exist yet.
func InitSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialise schema: %w", err)
		}
	}

	logger.Info().Msg("database schema initialised")

	return nil
}
