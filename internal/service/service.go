package service

import (
	"context"

	"github.com/fotuneb/bot-e-commerce/internal/model"
)

// CatalogService defines catalog browsing and operator catalog management.
type CatalogService interface {
	// AddCategory validates and creates a category, returning its id.
	AddCategory(ctx context.Context, input model.CategoryInput) (int64, error)

	// ListCategories returns all categories in insertion order.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// AddProduct validates and creates a product, returning its id.
	AddProduct(ctx context.Context, input model.ProductInput) (int64, error)

	// ListProductsByCategory returns the products of a category.
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)

	// GetProduct retrieves a single product or model.ErrProductNotFound.
	GetProduct(ctx context.Context, id int64) (*model.Product, error)

	// UpdateProduct applies a partial update. An empty update is a no-op.
	UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) error

	// DeleteProduct removes a product. Missing ids are a no-op.
	DeleteProduct(ctx context.Context, id int64) error
}

// CartService translates single-item cart intents into full-cart mutations.
type CartService interface {
	// Add puts one unit of a product into the cart (same as Increment).
	Add(ctx context.Context, userID, productID int64) error

	// Increment raises the product quantity by one.
	Increment(ctx context.Context, userID, productID int64) error

	// Decrement lowers the product quantity by one; a quantity reaching zero
	// removes the entry. Absent entries are left untouched.
	Decrement(ctx context.Context, userID, productID int64) error

	// Remove deletes the product entry from the cart.
	Remove(ctx context.Context, userID, productID int64) error

	// Clear removes the user's cart entirely.
	Clear(ctx context.Context, userID int64) error

	// Items returns the raw cart item map.
	Items(ctx context.Context, userID int64) (model.CartItems, error)

	// View returns the cart with product details, line totals and grand total.
	View(ctx context.Context, userID int64) (*model.CartView, error)

	// Total returns the cart grand total. Products no longer in the catalog
	// contribute zero; an empty or absent cart totals zero.
	Total(ctx context.Context, userID int64) (float64, error)
}

// OrderService defines checkout completion and operator order management.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order: within one
	// transaction it locks the cart, computes the total, persists the order
	// snapshot and clears the cart. An empty cart yields model.ErrEmptyCart.
	PlaceOrder(ctx context.Context, userID int64, info model.CustomerInfo) (*model.Order, error)

	// List returns all orders, most recent first.
	List(ctx context.Context) ([]model.Order, error)

	// Get retrieves a single order or model.ErrOrderNotFound.
	Get(ctx context.Context, id int64) (*model.Order, error)

	// UpdateStatus validates and overwrites the order status.
	UpdateStatus(ctx context.Context, id int64, input model.StatusInput) error
}
