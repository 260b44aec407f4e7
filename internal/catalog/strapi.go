package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/constants"
)

const defaultStrapiBaseURL = "http://127.0.0.1:1337"

// StrapiProvider Strapi 目录后端
type StrapiProvider struct {
	baseURL   string
	token     string
	transport *transport
}

// NewStrapiProvider 创建 Strapi 后端
func NewStrapiProvider(cfg config.StrapiConfig, timeout time.Duration) (*StrapiProvider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultStrapiBaseURL
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: strapi token is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: strapi base_url is invalid", ErrConfigInvalid)
	}
	return &StrapiProvider{
		baseURL:   baseURL,
		token:     strings.TrimSpace(cfg.Token),
		transport: newTransport(timeout),
	}, nil
}

// Name 后端名称
func (p *StrapiProvider) Name() string {
	return constants.CatalogBackendStrapi
}

type strapiImage struct {
	Data *struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

type strapiProductAttributes struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Image       strapiImage `json:"image"`
}

type strapiCollection struct {
	Data []struct {
		ID         int64                   `json:"id"`
		Attributes strapiProductAttributes `json:"attributes"`
	} `json:"data"`
}

func (p *StrapiProvider) assetURL(relative string) string {
	if strings.TrimSpace(relative) == "" {
		return ""
	}
	if strings.HasPrefix(relative, "http://") || strings.HasPrefix(relative, "https://") {
		return relative
	}
	return p.baseURL + relative
}

func (p *StrapiProvider) fetch(ctx context.Context, rawQuery string) (*strapiCollection, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.token)
	var collection strapiCollection
	if err := p.transport.fetchJSON(ctx, http.MethodGet, p.baseURL+"/api/products?"+rawQuery, header, nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (p *StrapiProvider) toProducts(collection *strapiCollection) []Product {
	products := make([]Product, 0, len(collection.Data))
	for _, item := range collection.Data {
		attrs := item.Attributes
		product := Product{
			ID:          strconv.FormatInt(item.ID, 10),
			Slug:        attrs.Slug,
			Name:        attrs.Name,
			Price:       "₽" + strconv.FormatFloat(attrs.Price, 'f', -1, 64),
			Description: attrs.Description,
		}
		if attrs.Image.Data != nil {
			if image := p.assetURL(attrs.Image.Data.Attributes.URL); image != "" {
				product.Images = []string{image}
			}
		}
		products = append(products, product)
	}
	return products
}

// ListProducts 商品列表
func (p *StrapiProvider) ListProducts(ctx context.Context) ([]Product, error) {
	collection, err := p.fetch(ctx, "populate=image&pagination[pageSize]=100")
	if err != nil {
		return nil, err
	}
	return p.toProducts(collection), nil
}

// GetProductBySlug 按 slug 过滤查询商品
func (p *StrapiProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	collection, err := p.fetch(ctx, "filters[slug][$eq]="+url.QueryEscape(slug)+"&populate=image")
	if err != nil {
		return nil, err
	}
	products := p.toProducts(collection)
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

// Ping 拉取一条商品确认令牌可用
func (p *StrapiProvider) Ping(ctx context.Context) error {
	_, err := p.fetch(ctx, "pagination[pageSize]=1")
	return err
}
