package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// AddCategory inserts a category and returns its generated id.
func (r *catalogRepository) AddCategory(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id
	`

	var id int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		r.logger.Error().Err(err).Str("name", name).Msg("failed to insert category")
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	r.logger.Info().Int64("category_id", id).Str("name", name).Msg("category added")

	return id, nil
}

// ListCategories returns all categories in insertion order.
func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT id, name
		FROM categories
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// AddProduct inserts a product and sets its generated id.
func (r *catalogRepository) AddProduct(ctx context.Context, p *model.Product) (int64, error) {
	query := `
		INSERT INTO products (category_id, name, description, price, photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, p.CategoryID, p.Name, p.Description, p.Price, p.Photo).Scan(&p.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert product")
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Info().
		Int64("product_id", p.ID).
		Str("name", p.Name).
		Float64("price", p.Price).
		Msg("product added")

	return p.ID, nil
}

// ListProductsByCategory returns products in a category, empty slice when none.
func (r *catalogRepository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	query := `
		SELECT id, category_id, name, description, price, photo
		FROM products
		WHERE category_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", categoryID).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Photo); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product, (nil, nil) when absent.
func (r *catalogRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, category_id, name, description, price, photo
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Photo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetProducts retrieves multiple products by id. Missing ids are silently
// omitted; empty input returns an empty slice without querying.
func (r *catalogRepository) GetProducts(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, category_id, name, description, price, photo
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Photo); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// UpdateProduct applies the non-nil fields of the update. An update with no
// fields set is a no-op and issues no query.
func (r *catalogRepository) UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) error {
	var setParts []string
	var args []any

	addField := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		addField("name", *upd.Name)
	}
	if upd.Description != nil {
		addField("description", *upd.Description)
	}
	if upd.Price != nil {
		addField("price", *upd.Price)
	}
	if upd.Photo != nil {
		addField("photo", *upd.Photo)
	}
	if upd.CategoryID != nil {
		addField("category_id", *upd.CategoryID)
	}

	if len(setParts) == 0 {
		r.logger.Debug().Int64("product_id", id).Msg("empty product update, skipping")
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d",
		strings.Join(setParts, ", "),
		len(args),
	)

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	r.logger.Info().
		Int64("product_id", id).
		Int("field_count", len(setParts)).
		Msg("product updated")

	return nil
}

// DeleteProduct removes a product. Deleting a missing id is a no-op.
func (r *catalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	query := `
		DELETE FROM products
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Info().
		Int64("product_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("product deleted")

	return nil
}
