package repository

import (
	"context"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository defines the interface for category and product data access.
type CatalogRepository interface {
	// AddCategory inserts a category and returns its generated id.
	AddCategory(ctx context.Context, name string) (int64, error)

	// ListCategories returns all categories in insertion order.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// AddProduct inserts a product and sets its generated id.
	AddProduct(ctx context.Context, p *model.Product) (int64, error)

	// ListProductsByCategory returns products in a category, empty slice when none.
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)

	// GetProduct retrieves a single product, (nil, nil) when absent.
	GetProduct(ctx context.Context, id int64) (*model.Product, error)

	// GetProducts retrieves multiple products by id. Missing ids are silently
	// omitted; empty input returns an empty slice without querying.
	GetProducts(ctx context.Context, ids []int64) ([]model.Product, error)

	// UpdateProduct applies the non-nil fields of the update. An update with
	// no fields set is a no-op.
	UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) error

	// DeleteProduct removes a product. Deleting a missing id is a no-op.
	DeleteProduct(ctx context.Context, id int64) error
}

// CartRepository defines the interface for per-user cart persistence. Carts
// are written wholesale: each write replaces the full item map.
type CartRepository interface {
	// Get returns the user's cart, empty map when absent.
	Get(ctx context.Context, userID int64) (model.CartItems, error)

	// Set overwrites the user's cart, creating the row if absent.
	Set(ctx context.Context, userID int64, items model.CartItems) error

	// Clear removes the user's cart row. Clearing a missing cart is a no-op.
	Clear(ctx context.Context, userID int64) error

	// Update applies fn to the user's cart inside a single transaction with
	// the cart row locked, making per-user mutations linearizable.
	Update(ctx context.Context, userID int64, fn func(model.CartItems) model.CartItems) (model.CartItems, error)

	// GetForUpdate reads and locks the user's cart within the transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (model.CartItems, error)

	// ClearTx removes the user's cart row within the transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts an order within the provided transaction and sets its
	// generated id. A colliding order number yields model.ErrDuplicateOrderNumber.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) (int64, error)

	// List returns all orders, most recent first.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order, (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// UpdateStatus overwrites the status of an order. Status values are not
	// validated; a missing order yields model.ErrOrderNotFound.
	UpdateStatus(ctx context.Context, id int64, status string) error
}
