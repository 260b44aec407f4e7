package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingProvider struct {
	lists   int
	details int
}

func (p *countingProvider) Name() string { return "fake" }

func (p *countingProvider) ListProducts(context.Context) ([]Product, error) {
	p.lists++
	return []Product{{ID: "1", Slug: "a", Name: "A"}}, nil
}

func (p *countingProvider) GetProductBySlug(_ context.Context, slug string) (*Product, error) {
	p.details++
	if slug == "missing" {
		return nil, ErrProductNotFound
	}
	return &Product{ID: "1", Slug: slug, Name: "A"}, nil
}

func (p *countingProvider) Ping(context.Context) error { return nil }

func TestCachedProviderReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(cache.Reset)

	upstream := &countingProvider{}
	cached := NewCachedProvider(upstream, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cached.ListProducts(ctx); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if _, err := cached.GetProductBySlug(ctx, "a"); err != nil {
			t.Fatalf("detail failed: %v", err)
		}
	}
	if upstream.lists != 1 || upstream.details != 1 {
		t.Fatalf("second round should hit cache, lists=%d details=%d", upstream.lists, upstream.details)
	}
	if !mr.Exists("test:catalog:product:a") {
		t.Fatalf("expected product key in redis, keys=%v", mr.Keys())
	}

	for i := 0; i < 2; i++ {
		if _, err := cached.GetProductBySlug(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("missing product should pass through, got %v", err)
		}
	}
	if upstream.details != 3 {
		t.Fatalf("not found should not be cached, details=%d", upstream.details)
	}
}

func TestCachedProviderWithoutRedis(t *testing.T) {
	cache.Reset()
	upstream := &countingProvider{}
	cached := NewCachedProvider(upstream, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cached.ListProducts(context.Background()); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	}
	if upstream.lists != 2 {
		t.Fatalf("disabled cache should pass through, lists=%d", upstream.lists)
	}
	if _, ok := AsOrderPlacer(cached); ok {
		t.Fatalf("fake provider does not place orders")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	provider, err := New(config.CatalogConfig{Backend: "woo", CacheTTLSeconds: 30, Woo: config.WooConfig{BaseURL: "https://shop", ConsumerKey: "ck", ConsumerSecret: "cs"}})
	if err != nil {
		t.Fatalf("new woo failed: %v", err)
	}
	if provider.Name() != "woo" {
		t.Fatalf("unexpected backend: %s", provider.Name())
	}
	if _, ok := provider.(*CachedProvider); !ok {
		t.Fatalf("positive ttl should wrap with cache, got %T", provider)
	}
	if _, ok := AsOrderPlacer(provider); !ok {
		t.Fatalf("woo backend should place orders")
	}

	provider, err = New(config.CatalogConfig{Backend: "GraphQL", GraphQL: config.GraphQLConfig{Endpoint: "https://shop/graphql"}})
	if err != nil {
		t.Fatalf("new graphql failed: %v", err)
	}
	if _, ok := provider.(*GraphQLProvider); !ok {
		t.Fatalf("zero ttl should not wrap, got %T", provider)
	}

	if _, err := New(config.CatalogConfig{Backend: "shopify"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("unknown backend should be rejected, got %v", err)
	}
}

type sharedProvider struct {
	countingProvider
	items []Product
}

func (p *sharedProvider) ListProducts(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.items, nil
}

func (p *sharedProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &p.items[0], nil
}

func TestCachedProviderReturnsCopies(t *testing.T) {
	cache.Reset()
	qty := 2
	upstream := &sharedProvider{items: []Product{{
		ID:         "1",
		Slug:       "a",
		Name:       "A",
		Images:     []string{"/a.jpg"},
		Variations: []Variation{{ID: "v", StockQuantity: &qty, Attributes: []Attribute{{Name: "size", Value: "M"}}}},
	}}}
	cached := NewCachedProvider(upstream, time.Minute)

	list, err := cached.ListProducts(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("list failed: %v %v", list, err)
	}
	list[0].Name = "changed"
	list[0].Images[0] = "/changed.jpg"
	*list[0].Variations[0].StockQuantity = 0
	list[0].Variations[0].Attributes[0].Value = "XL"

	detail, err := cached.GetProductBySlug(context.Background(), "a")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	detail.Images[0] = "/detail.jpg"

	got := upstream.items[0]
	if got.Name != "A" || got.Images[0] != "/a.jpg" || *got.Variations[0].StockQuantity != 2 || got.Variations[0].Attributes[0].Value != "M" {
		t.Fatalf("callers should not mutate upstream data: %+v", got)
	}
}

func TestCachedProviderIgnoresCallerCancel(t *testing.T) {
	cache.Reset()
	upstream := &sharedProvider{items: []Product{{ID: "1", Slug: "a", Name: "A"}}}
	cached := NewCachedProvider(upstream, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cached.ListProducts(ctx); err != nil {
		t.Fatalf("shared fetch should not inherit caller cancel: %v", err)
	}
	if _, err := cached.GetProductBySlug(ctx, "a"); err != nil {
		t.Fatalf("shared detail fetch should not inherit caller cancel: %v", err)
	}
}
