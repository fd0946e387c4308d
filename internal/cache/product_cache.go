package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fotuneb/bot-e-commerce/internal/model"
	"github.com/fotuneb/bot-e-commerce/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedCatalogRepository decorates a CatalogRepository with a cache-aside
// product cache. Cache failures never fail the request; the database remains
// authoritative.
type CachedCatalogRepository struct {
	repository.CatalogRepository

	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedCatalogRepository wraps repo with a Redis product cache.
func NewCachedCatalogRepository(repo repository.CatalogRepository, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedCatalogRepository {
	return &CachedCatalogRepository{
		CatalogRepository: repo,
		rdb:               rdb,
		ttl:               ttl,
		logger:            logger.With().Str("component", "product-cache").Logger(),
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct serves product detail reads from the cache when possible.
func (c *CachedCatalogRepository) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	key := productKey(id)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p model.Product
		if unmarshalErr := json.Unmarshal(data, &p); unmarshalErr != nil {
			c.logger.Warn().Err(unmarshalErr).Str("key", key).Msg("corrupt cache entry, falling through to database")
			break
		}
		return &p, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to database")
	}

	p, err := c.CatalogRepository.GetProduct(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	if data, marshalErr := json.Marshal(p); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn().Err(setErr).Str("key", key).Msg("failed to cache product")
		}
	}

	return p, nil
}

// UpdateProduct applies the update and invalidates the cached entry.
func (c *CachedCatalogRepository) UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) error {
	if err := c.CatalogRepository.UpdateProduct(ctx, id, upd); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// DeleteProduct removes the product and invalidates the cached entry.
func (c *CachedCatalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.CatalogRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedCatalogRepository) invalidate(ctx context.Context, id int64) {
	key := productKey(id)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to invalidate product cache")
	}
}
