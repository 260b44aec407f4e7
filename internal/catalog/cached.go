package catalog

import (
	"context"
	"time"

	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/logger"

	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyList          = "catalog:list"
	cacheKeyProductPrefix = "catalog:product:"
)

// CachedProvider Redis 读穿缓存，Redis 未启用时直接透传
type CachedProvider struct {
	Provider
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedProvider 包装目录后端
func NewCachedProvider(p Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{Provider: p, ttl: ttl}
}

// Unwrap 返回被包装的后端
func (c *CachedProvider) Unwrap() Provider {
	return c.Provider
}

// ListProducts 商品列表
func (c *CachedProvider) ListProducts(ctx context.Context) ([]Product, error) {
	var cached []Product
	if hit, err := cache.GetJSON(ctx, cacheKeyList, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", cacheKeyList, "error", err)
	}
	// 同一时刻的未命中只回源一次，回源不随首个调用方取消
	value, err, _ := c.group.Do(cacheKeyList, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		products, err := c.Provider.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, cacheKeyList, products, c.ttl); err != nil {
			logger.Warnw("catalog_cache_write_failed", "key", cacheKeyList, "error", err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	shared := value.([]Product)
	products := make([]Product, len(shared))
	for i := range shared {
		products[i] = shared[i].Clone()
	}
	return products, nil
}

// GetProductBySlug 按 slug 查询；未找到不缓存
func (c *CachedProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	key := cacheKeyProductPrefix + slug
	var cached Product
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		logger.Warnw("catalog_cache_read_failed", "key", key, "error", err)
	}
	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		product, err := c.Provider.GetProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, key, product, c.ttl); err != nil {
			logger.Warnw("catalog_cache_write_failed", "key", key, "error", err)
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	product := value.(*Product).Clone()
	return &product, nil
}

// PlaceOrder 透传给支持远端下单的后端
func (c *CachedProvider) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	placer, ok := c.Provider.(OrderPlacer)
	if !ok {
		return nil, ErrOrderInvalid
	}
	return placer.PlaceOrder(ctx, input)
}

// AsOrderPlacer 判断后端（含缓存包装）是否支持远端下单
func AsOrderPlacer(p Provider) (OrderPlacer, bool) {
	if wrapped, ok := p.(*CachedProvider); ok {
		p = wrapped.Unwrap()
	}
	placer, ok := p.(OrderPlacer)
	return placer, ok
}
