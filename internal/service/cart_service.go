package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. Every mutation runs through
// CartRepository.Update, which serializes per-user mutations on the cart row.
type cartService struct {
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, catalogRepo repository.CatalogRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Add puts one unit of a product into the cart.
func (s *cartService) Add(ctx context.Context, userID, productID int64) error {
	return s.Increment(ctx, userID, productID)
}

// Increment raises the product quantity by one.
func (s *cartService) Increment(ctx context.Context, userID, productID int64) error {
	_, err := s.cartRepo.Update(ctx, userID, func(items model.CartItems) model.CartItems {
		items[productID] = items[productID] + 1
		return items
	})
	if err != nil {
		return fmt.Errorf("failed to increment cart item: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int64("product_id", productID).
		Msg("cart item incremented")

	return nil
}

// Decrement lowers the product quantity by one. A quantity reaching zero
// removes the entry; an absent entry is left untouched.
func (s *cartService) Decrement(ctx context.Context, userID, productID int64) error {
	_, err := s.cartRepo.Update(ctx, userID, func(items model.CartItems) model.CartItems {
		qty, ok := items[productID]
		if !ok {
			return items
		}
		if qty-1 <= 0 {
			delete(items, productID)
		} else {
			items[productID] = qty - 1
		}
		return items
	})
	if err != nil {
		return fmt.Errorf("failed to decrement cart item: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int64("product_id", productID).
		Msg("cart item decremented")

	return nil
}

// Remove deletes the product entry from the cart.
func (s *cartService) Remove(ctx context.Context, userID, productID int64) error {
	_, err := s.cartRepo.Update(ctx, userID, func(items model.CartItems) model.CartItems {
		delete(items, productID)
		return items
	})
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int64("product_id", productID).
		Msg("cart item removed")

	return nil
}

// Clear removes the user's cart entirely.
func (s *cartService) Clear(ctx context.Context, userID int64) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// Items returns the raw cart item map.
func (s *cartService) Items(ctx context.Context, userID int64) (model.CartItems, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return items, nil
}

// View returns the cart with product details, line totals and grand total.
// Products no longer in the catalog are omitted from the lines and contribute
// zero to the total.
func (s *cartService) View(ctx context.Context, userID int64) (*model.CartView, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	view := &model.CartView{Lines: []model.CartLine{}}
	if len(items) == 0 {
		return view, nil
	}

	products, err := s.productsFor(ctx, items)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, pid := range ids {
		p, ok := products[pid]
		if !ok {
			continue
		}
		qty := items[pid]
		line := model.CartLine{
			ProductID: pid,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
			LineTotal: p.Price * float64(qty),
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}

	return view, nil
}

// Total returns the cart grand total.
func (s *cartService) Total(ctx context.Context, userID int64) (float64, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get cart: %w", err)
	}

	return s.totalOf(ctx, items)
}

// totalOf sums price times quantity over the item map, looking prices up at
// computation time. Missing products contribute zero.
func (s *cartService) totalOf(ctx context.Context, items model.CartItems) (float64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	products, err := s.productsFor(ctx, items)
	if err != nil {
		return 0, err
	}

	var total float64
	for pid, qty := range items {
		if p, ok := products[pid]; ok {
			total += p.Price * float64(qty)
		}
	}

	return total, nil
}

// productsFor batch-fetches the products referenced by the item map.
func (s *cartService) productsFor(ctx context.Context, items model.CartItems) (map[int64]model.Product, error) {
	ids := make([]int64, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}

	products, err := s.catalogRepo.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart products: %w", err)
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return byID, nil
}
