package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/ordernum"
	"github.com/fotuneb/bot-e-commerce/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// maxOrderNumberAttempts bounds the regenerate-and-retry loop on order number
// collisions.
const maxOrderNumberAttempts = 3

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	generator   ordernum.Generator
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	generator ordernum.Generator,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		generator:   generator,
		validate:    validator.New(),
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order. Order creation and cart
// clearing commit together; any failure rolls back and leaves the cart
// intact, so a failed confirmation is retryable without data loss. A
// colliding order number is retried with a freshly generated one.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, info model.CustomerInfo) (*model.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order, err := s.placeOrderOnce(ctx, userID, info)
		if errors.Is(err, model.ErrDuplicateOrderNumber) {
			s.logger.Warn().
				Int64("user_id", userID).
				Int("attempt", attempt).
				Msg("order number collision, regenerating")
			lastErr = err
			continue
		}
		return order, err
	}

	return nil, lastErr
}

// placeOrderOnce runs a single checkout attempt inside one transaction:
// lock cart, compute total, create order, clear cart, commit.
func (s *orderService) placeOrderOnce(ctx context.Context, userID int64, info model.CustomerInfo) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to begin checkout transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	var items model.CartItems
	items, err = s.cartRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load cart for checkout")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if len(items) == 0 {
		err = model.ErrEmptyCart
		s.logger.Debug().Int64("user_id", userID).Msg("checkout with empty cart")
		return nil, err
	}

	var total float64
	total, err = s.snapshotTotal(ctx, items)
	if err != nil {
		return nil, err
	}

	var number string
	number, err = s.generator.Generate()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate order number")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	order := &model.Order{
		OrderNumber:    number,
		UserID:         userID,
		CustomerName:   info.Name,
		Phone:          info.Phone,
		Address:        info.Address,
		DeliveryMethod: model.DefaultDeliveryMethod,
		Items:          items.Clone(),
		Total:          total,
		Status:         model.DefaultOrderStatus,
	}

	if _, err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, err
	}

	if err = s.cartRepo.ClearTx(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to commit checkout transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("user_id", userID).
		Float64("total", order.Total).
		Msg("order placed")

	return order, nil
}

// snapshotTotal sums price times quantity over the cart, using prices looked
// up at computation time. Products no longer found contribute zero.
func (s *orderService) snapshotTotal(ctx context.Context, items model.CartItems) (float64, error) {
	ids := make([]int64, 0, len(items))
	for pid := range items {
		ids = append(ids, pid)
	}

	products, err := s.catalogRepo.GetProducts(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products for checkout total")
		return 0, fmt.Errorf("failed to place order: %w", err)
	}

	priceByID := make(map[int64]float64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.Price
	}

	var total float64
	for pid, qty := range items {
		total += priceByID[pid] * float64(qty)
	}

	return total, nil
}

// List returns all orders, most recent first.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	s.logger.Debug().Int("count", len(orders)).Msg("retrieved orders")

	return orders, nil
}

// Get retrieves a single order or model.ErrOrderNotFound.
func (s *orderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// UpdateStatus validates and overwrites the order status. Status values are
// deliberately free text; only an empty status is rejected.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, input model.StatusInput) error {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Warn().Err(err).Int64("order_id", id).Msg("invalid status input")
		return model.NewDomainError(model.ErrCodeValidation, "status is required")
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, input.Status); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}
