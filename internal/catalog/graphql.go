package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gang-ground/internal/constants"

	"github.com/goccy/go-json"
)

const productFields = `
      id
      slug
      name
      description
      image { sourceUrl }
      galleryImages { nodes { sourceUrl } }
      ... on SimpleProduct { price stockStatus stockQuantity }
      ... on VariableProduct {
        price
        stockStatus
        variations(first: 100) { nodes { id name price stockStatus stockQuantity attributes { nodes { name value } } } }
      }`

const productBySlugQuery = `
  query ProductBySlug($slug: ID!) {
    product(id: $slug, idType: SLUG) {` + productFields + `
    }
  }
`

const productsQuery = `
  query Products($first: Int!) {
    products(first: $first) {
      nodes {` + productFields + `
      }
    }
  }
`

const healthQuery = `
  query HealthCheck {
    generalSettings {
      title
      description
    }
  }
`

const graphQLPageSize = 100

// GraphQLProvider WPGraphQL 目录后端
type GraphQLProvider struct {
	endpoint  string
	transport *transport
}

// NewGraphQLProvider 创建 WPGraphQL 后端
func NewGraphQLProvider(endpoint string, timeout time.Duration) (*GraphQLProvider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: graphql endpoint is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("%w: graphql endpoint is invalid", ErrConfigInvalid)
	}
	return &GraphQLProvider{endpoint: endpoint, transport: newTransport(timeout)}, nil
}

// Name 后端名称
func (p *GraphQLProvider) Name() string {
	return constants.CatalogBackendGraphQL
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// execute 执行查询，首个 errors[].message 作为错误返回
func (p *GraphQLProvider) execute(ctx context.Context, query string, variables map[string]interface{}, dest interface{}) error {
	payload := map[string]interface{}{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}
	var envelope graphQLEnvelope
	if err := p.transport.fetchJSON(ctx, http.MethodPost, p.endpoint, nil, payload, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		message := strings.TrimSpace(envelope.Errors[0].Message)
		if message == "" {
			message = "unknown graphql error"
		}
		return fmt.Errorf("%w: graphql error: %s", ErrResponseInvalid, message)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: graphql data is empty", ErrResponseInvalid)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return fmt.Errorf("%w: decode graphql data failed", ErrResponseInvalid)
	}
	return nil
}

type gqlImage struct {
	SourceURL string `json:"sourceUrl"`
}

type gqlVariation struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	StockStatus   string `json:"stockStatus"`
	StockQuantity *int   `json:"stockQuantity"`
	Attributes    struct {
		Nodes []Attribute `json:"nodes"`
	} `json:"attributes"`
}

type gqlProduct struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	StockStatus   string    `json:"stockStatus"`
	StockQuantity *int      `json:"stockQuantity"`
	Image         *gqlImage `json:"image"`
	GalleryImages struct {
		Nodes []gqlImage `json:"nodes"`
	} `json:"galleryImages"`
	Variations struct {
		Nodes []gqlVariation `json:"nodes"`
	} `json:"variations"`
}

func (g gqlProduct) toProduct() Product {
	product := Product{
		ID:            g.ID,
		Slug:          g.Slug,
		Name:          g.Name,
		Price:         g.Price,
		Description:   g.Description,
		StockStatus:   strings.ToUpper(strings.TrimSpace(g.StockStatus)),
		StockQuantity: g.StockQuantity,
	}
	if g.Image != nil && strings.TrimSpace(g.Image.SourceURL) != "" {
		product.Images = append(product.Images, g.Image.SourceURL)
	}
	for _, img := range g.GalleryImages.Nodes {
		if strings.TrimSpace(img.SourceURL) != "" {
			product.Images = append(product.Images, img.SourceURL)
		}
	}
	for _, v := range g.Variations.Nodes {
		product.Variations = append(product.Variations, Variation{
			ID:            v.ID,
			Name:          v.Name,
			Price:         v.Price,
			StockStatus:   strings.ToUpper(strings.TrimSpace(v.StockStatus)),
			StockQuantity: v.StockQuantity,
			Attributes:    v.Attributes.Nodes,
		})
	}
	return product
}

// ListProducts 商品列表
func (p *GraphQLProvider) ListProducts(ctx context.Context) ([]Product, error) {
	var data struct {
		Products struct {
			Nodes []gqlProduct `json:"nodes"`
		} `json:"products"`
	}
	if err := p.execute(ctx, productsQuery, map[string]interface{}{"first": graphQLPageSize}, &data); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(data.Products.Nodes))
	for _, node := range data.Products.Nodes {
		products = append(products, node.toProduct())
	}
	return products, nil
}

// GetProductBySlug 按 slug 查询商品
func (p *GraphQLProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var data struct {
		Product *gqlProduct `json:"product"`
	}
	if err := p.execute(ctx, productBySlugQuery, map[string]interface{}{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, ErrProductNotFound
	}
	product := data.Product.toProduct()
	return &product, nil
}

// Ping 查询站点基础信息以确认后端可用
func (p *GraphQLProvider) Ping(ctx context.Context) error {
	var data struct {
		GeneralSettings *struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"generalSettings"`
	}
	if err := p.execute(ctx, healthQuery, nil, &data); err != nil {
		return err
	}
	if data.GeneralSettings == nil {
		return fmt.Errorf("%w: generalSettings missing", ErrResponseInvalid)
	}
	return nil
}
