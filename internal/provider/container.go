package provider

import (
	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/catalog"
	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/queue"
	"github.com/gang-ground/internal/repository"
	"github.com/gang-ground/internal/service"
	"github.com/gang-ground/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Catalog     catalog.Provider
	CartStorage cart.Storage

	// Repositories
	OrderRepo repository.OrderRepository
	KVRepo    repository.KVRepository

	// Services
	CartService     *service.CartService
	ProductService  *service.ProductService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		return nil, err
	}

	provider, err := catalog.New(cfg.Catalog)
	if err != nil {
		logger.Errorw("provider_init_catalog_failed", "backend", cfg.Catalog.Backend, "error", err)
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Catalog:     provider,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化购物车存储
	cartStorage, err := storage.New(cfg.Cart, storage.Deps{KV: c.KVRepo})
	if err != nil {
		logger.Errorw("provider_init_cart_storage_failed", "driver", cfg.Cart.Storage, "error", err)
		return nil, err
	}
	c.CartStorage = cartStorage

	// 3. 初始化 Services
	c.initServices()

	logger.Infow("provider_initialized",
		"catalog_backend", provider.Name(),
		"cart_storage", cfg.Cart.Storage,
		"redis_enabled", cache.Enabled(),
		"queue_enabled", queueClient.Enabled(),
	)
	return c, nil
}

func (c *Container) initRepositories() {
	db := models.DB
	if db == nil {
		return
	}
	c.OrderRepo = repository.NewOrderRepository(db)
	c.KVRepo = repository.NewKVRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.CartService = service.NewCartService(c.CartStorage, cfg.Cart.StorageKey)
	c.ProductService = service.NewProductService(c.Catalog)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(c.Catalog, c.CartService, c.OrderRepo, c.QueueClient, service.CheckoutOptions{
		PlaceRemoteOrder:     cfg.Checkout.PlaceRemoteOrder,
		Currency:             cfg.Checkout.Currency,
		PaymentExpireMinutes: cfg.Order.PaymentExpireMinutes,
	})
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	cache.Reset()
}

