package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/constants"
)

var (
	ErrConfigInvalid   = errors.New("catalog config invalid")
	ErrProductNotFound = errors.New("catalog product not found")
	ErrRequestFailed   = errors.New("catalog request failed")
	ErrResponseInvalid = errors.New("catalog response invalid")
	ErrOrderInvalid    = errors.New("catalog order input invalid")
)

// Attribute 变体属性（如 尺码=M）
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variation 商品变体
type Variation struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Price         string      `json:"price"`
	StockStatus   string      `json:"stock_status"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// InStock 变体是否可售
func (v Variation) InStock() bool {
	return IsInStock(v.StockStatus, v.StockQuantity)
}

// Product 各后端统一后的商品结构
type Product struct {
	ID            string      `json:"id"`
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Price         string      `json:"price"`
	Description   string      `json:"description,omitempty"`
	Images        []string    `json:"images,omitempty"`
	StockStatus   string      `json:"stock_status,omitempty"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	Variations    []Variation `json:"variations,omitempty"`
}

// Clone 深拷贝，切片与库存指针不与原值共享
func (p Product) Clone() Product {
	out := p
	out.Images = append([]string(nil), p.Images...)
	out.StockQuantity = cloneIntPtr(p.StockQuantity)
	if p.Variations != nil {
		out.Variations = make([]Variation, len(p.Variations))
		for i, v := range p.Variations {
			v.Attributes = append([]Attribute(nil), v.Attributes...)
			v.StockQuantity = cloneIntPtr(v.StockQuantity)
			out.Variations[i] = v
		}
	}
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// HasVariations 是否为可变商品
func (p Product) HasVariations() bool {
	return len(p.Variations) > 0
}

// MatchVariation 按尺码查找变体，属性值大小写不敏感
func (p Product) MatchVariation(size string) (*Variation, bool) {
	for i := range p.Variations {
		for _, attr := range p.Variations[i].Attributes {
			if strings.EqualFold(attr.Value, size) {
				return &p.Variations[i], true
			}
		}
	}
	return nil, false
}

// Provider 商品目录后端
type Provider interface {
	Name() string
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	Ping(ctx context.Context) error
}

// Customer 下单联系人
type Customer struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Note    string
}

// OrderLine 远端下单行
type OrderLine struct {
	ProductID   string
	VariationID string
	Quantity    int
}

// PlaceOrderInput 远端下单输入
type PlaceOrderInput struct {
	OrderNo  string
	Currency string
	Customer Customer
	Lines    []OrderLine
}

// PlacedOrder 远端下单结果
type PlacedOrder struct {
	RemoteID   string
	PaymentURL string
}

// OrderPlacer 支持远端下单的后端
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error)
}

// New 根据配置创建目录后端
func New(cfg config.CatalogConfig) (Provider, error) {
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	var provider Provider
	var err error
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", constants.CatalogBackendGraphQL:
		provider, err = NewGraphQLProvider(cfg.GraphQL.Endpoint, timeout)
	case constants.CatalogBackendWoo:
		provider, err = NewWooProvider(cfg.Woo, timeout)
	case constants.CatalogBackendStrapi:
		provider, err = NewStrapiProvider(cfg.Strapi, timeout)
	default:
		return nil, fmt.Errorf("%w: unsupported backend %s", ErrConfigInvalid, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTLSeconds > 0 {
		provider = NewCachedProvider(provider, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return provider, nil
}
