package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts an order within the provided transaction and sets its
// generated id. A colliding order number yields model.ErrDuplicateOrderNumber.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (int64, error) {
	rawItems, err := json.Marshal(order.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (order_number, user_id, customer_name, phone, address, delivery_method, items, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query,
		order.OrderNumber,
		order.UserID,
		order.CustomerName,
		order.Phone,
		order.Address,
		order.DeliveryMethod,
		rawItems,
		order.Total,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("order_number", order.OrderNumber).
				Msg("order number collision")
			return 0, model.ErrDuplicateOrderNumber
		}
		r.logger.Error().Err(err).
			Str("order_number", order.OrderNumber).
			Int64("user_id", order.UserID).
			Msg("failed to create order")
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("user_id", order.UserID).
		Float64("total", order.Total).
		Msg("order created")

	return order.ID, nil
}

// List returns all orders, most recent first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT id, order_number, user_id, customer_name, phone, address, delivery_method, items, total, status, created_at
		FROM orders
		ORDER BY id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves an order, (nil, nil) when absent.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, order_number, user_id, customer_name, phone, address, delivery_method, items, total, status, created_at
		FROM orders
		WHERE id = $1
	`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return o, nil
}

// UpdateStatus overwrites the status of an order. Any status string is
// accepted; a missing order yields model.ErrOrderNotFound.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("order_id", id).Msg("order not found for status update")
		return model.ErrOrderNotFound
	}

	r.logger.Info().Int64("order_id", id).Str("status", status).Msg("order status updated")

	return nil
}

// scanOrder scans a full order row, decoding the item snapshot.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var rawItems []byte

	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.CustomerName,
		&o.Phone,
		&o.Address,
		&o.DeliveryMethod,
		&rawItems,
		&o.Total,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Items = model.CartItems{}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return &o, nil
}
