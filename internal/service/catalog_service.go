package service

import (
	"context"
	"fmt"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		validate:    validator.New(),
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// AddCategory validates and creates a category, returning its id.
func (s *catalogService) AddCategory(ctx context.Context, input model.CategoryInput) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Warn().Err(err).Msg("invalid category input")
		return 0, model.NewDomainError(model.ErrCodeValidation, "category name is required")
	}

	id, err := s.catalogRepo.AddCategory(ctx, input.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to add category: %w", err)
	}

	return id, nil
}

// ListCategories returns all categories in insertion order.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	s.logger.Debug().Int("count", len(categories)).Msg("retrieved categories")

	return categories, nil
}

// AddProduct validates and creates a product, returning its id.
func (s *catalogService) AddProduct(ctx context.Context, input model.ProductInput) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		s.logger.Warn().Err(err).Str("name", input.Name).Msg("invalid product input")
		return 0, model.NewDomainError(model.ErrCodeValidation, "product name is required and price must be non-negative")
	}

	p := &model.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Photo:       input.Photo,
	}

	id, err := s.catalogRepo.AddProduct(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("failed to add product: %w", err)
	}

	return id, nil
}

// ListProductsByCategory returns the products of a category.
func (s *catalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	products, err := s.catalogRepo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int64("category_id", categoryID).
		Int("count", len(products)).
		Msg("retrieved products by category")

	return products, nil
}

// GetProduct retrieves a single product or model.ErrProductNotFound.
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.catalogRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// UpdateProduct applies a partial update. An empty update is a no-op, not an
// error.
func (s *catalogService) UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) error {
	if err := s.validate.Struct(upd); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("invalid product update")
		return model.NewDomainError(model.ErrCodeValidation, "product price must be non-negative")
	}

	if upd.IsEmpty() {
		s.logger.Debug().Int64("product_id", id).Msg("empty product update")
		return nil
	}

	if err := s.catalogRepo.UpdateProduct(ctx, id, upd); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// DeleteProduct removes a product. Missing ids are a no-op.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.catalogRepo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
