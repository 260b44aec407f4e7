package router

import (
	"fmt"
	"strings"

	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/config"
	publichandlers "github.com/gang-ground/internal/http/handlers/public"
	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	// 行项目标识可能含 "/"（如尺码 42/44），按转义前的路径匹配后再解码参数
	r.UseRawPath = true
	r.UnescapePathValues = true

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gg"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, response.CodeNotFound, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", publicHandler.Health)
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:slug", publicHandler.GetProduct)
		apiV1.GET("/orders/:order_no", publicHandler.GetOrder)

		// 购物车会话接口
		session := apiV1.Group("")
		session.Use(CartSessionMiddleware(cfg.Cart))
		{
			session.GET("/cart", publicHandler.GetCart)
			session.DELETE("/cart", publicHandler.ClearCart)
			session.POST("/cart/items", publicHandler.AddCartItem)
			session.PUT("/cart/items/:key", publicHandler.UpdateCartItem)
			session.DELETE("/cart/items/:key", publicHandler.RemoveCartItem)
			session.GET("/orders", publicHandler.ListOrders)
			session.POST("/checkout", NewRateLimitMiddleware(cache.Client(), checkoutRule, KeyByCartSession), publicHandler.Checkout)
		}
	}

	return r
}
