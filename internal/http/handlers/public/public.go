package public

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/i18n"

	"github.com/gin-gonic/gin"
)

const (
	healthPingTimeout    = 3 * time.Second
	healthStatusDegraded = "degraded"
)

var errCatalogNotConfigured = errors.New("catalog not configured")

// HealthCatalog 目录后端健康状态
type HealthCatalog struct {
	Backend string `json:"backend"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string        `json:"status"`
	Catalog     HealthCatalog `json:"catalog"`
	CartStorage string        `json:"cart_storage"`
	Redis       bool          `json:"redis"`
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:      i18n.T(i18n.ResolveLocale(c), "health.ok"),
		CartStorage: h.cartStorageName(),
		Redis:       cache.Enabled() && cache.Ping(ctx) == nil,
	}
	var err error
	if h.Catalog == nil {
		err = errCatalogNotConfigured
	} else {
		resp.Catalog.Backend = h.Catalog.Name()
		err = h.Catalog.Ping(ctx)
	}
	if err != nil {
		resp.Status = healthStatusDegraded
		resp.Catalog.Error = err.Error()
		respondErrorWithData(c, response.CodeServiceUnavailable, i18n.T(i18n.ResolveLocale(c), "error.catalog_unavailable"), resp, err)
		return
	}
	resp.Catalog.OK = true
	response.Success(c, resp)
}

func (h *Handler) cartStorageName() string {
	if h.Config == nil {
		return ""
	}
	name := strings.TrimSpace(h.Config.Cart.Storage)
	if name == "" {
		return "memory"
	}
	return name
}

// ListProducts 商品卡片列表
func (h *Handler) ListProducts(c *gin.Context) {
	cards, err := h.ProductService.ListCards(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"items": cards})
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.ProductService.GetDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, detail)
}
