package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gang-ground/internal/catalog"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/repository"
	"github.com/gang-ground/internal/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.KVEntry{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = previous })
	return db
}

func intPtr(v int) *int {
	return &v
}

// fakeCatalog 内存目录后端
type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	err      error
	lookups  []string
}

func newFakeCatalog(products ...catalog.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[string]catalog.Product)}
	for _, p := range products {
		f.products[p.Slug] = p
	}
	return f
}

func (f *fakeCatalog) Name() string { return "fake" }

func (f *fakeCatalog) ListProducts(context.Context) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	list := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		list = append(list, p)
	}
	return list, nil
}

func (f *fakeCatalog) GetProductBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, slug)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[slug]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) Ping(context.Context) error { return f.err }

// fakePlacer 支持远端下单的目录后端
type fakePlacer struct {
	*fakeCatalog
	placed   []catalog.PlaceOrderInput
	url      string
	placeErr error
	// localStatus 下远端单时本地记录的状态，空串表示尚无本地记录
	localStatus string
}

func (f *fakePlacer) PlaceOrder(_ context.Context, input catalog.PlaceOrderInput) (*catalog.PlacedOrder, error) {
	f.placed = append(f.placed, input)
	var order models.Order
	if err := models.DB.Where("order_no = ?", input.OrderNo).First(&order).Error; err == nil {
		f.localStatus = order.Status
	}
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &catalog.PlacedOrder{RemoteID: "901", PaymentURL: f.url}, nil
}

// failingStatusRepo 状态更新总是失败的订单仓库
type failingStatusRepo struct {
	*repository.GormOrderRepository
}

func (r failingStatusRepo) UpdateStatus(uint, string, string, map[string]interface{}) (bool, error) {
	return false, errors.New("update failed")
}

func hoodie() catalog.Product {
	return catalog.Product{
		ID:    "p-hoodie",
		Slug:  "gg-hoodie",
		Name:  "GG Hoodie",
		Price: "4999",
		Variations: []catalog.Variation{
			{ID: "v-s", Price: "4999", StockStatus: "OUT_OF_STOCK", StockQuantity: intPtr(0), Attributes: []catalog.Attribute{{Name: "size", Value: "S"}}},
			{ID: "v-m", Price: "4999", StockStatus: "IN_STOCK", Attributes: []catalog.Attribute{{Name: "size", Value: "M"}}},
		},
	}
}

func gangCap() catalog.Product {
	return catalog.Product{ID: "p-cap", Slug: "gang-cap", Name: "Gang Cap", Price: "1500"}
}

func newTestCartService() *CartService {
	return NewCartService(storage.NewMemoryStorage(), "test-cart")
}

func newTestCheckout(t *testing.T, provider catalog.Provider, opts CheckoutOptions) (*CheckoutService, *CartService) {
	t.Helper()
	db := setupServiceDB(t)
	carts := newTestCartService()
	svc := NewCheckoutService(provider, carts, repository.NewOrderRepository(db), nil, opts)
	return svc, carts
}
