package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gang-ground/internal/catalog"
)

const defaultProductImage = "/items/item-01.jpg"

var defaultSizes = []string{"s", "m", "l", "xl"}

// ProductCard 列表卡片
type ProductCard struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	Images         []string `json:"images"`
	Description    []string `json:"description"`
	Sizes          []string `json:"sizes"`
	AvailableSizes []string `json:"available_sizes"`
}

// ProductService 商品展示服务
type ProductService struct {
	catalog catalog.Provider
}

// NewProductService 创建商品服务
func NewProductService(provider catalog.Provider) *ProductService {
	return &ProductService{catalog: provider}
}

// ListCards 商品卡片列表
func (s *ProductService) ListCards(ctx context.Context) ([]ProductCard, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		image := defaultProductImage
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		cards = append(cards, ProductCard{
			ID:    p.ID,
			Slug:  p.Slug,
			Name:  p.Name,
			Price: productPrice(p),
			Image: image,
		})
	}
	return cards, nil
}

// GetDetail 商品详情
func (s *ProductService) GetDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	detail := BuildProductDetail(*product)
	return &detail, nil
}

// BuildProductDetail 由目录商品生成详情视图
func BuildProductDetail(p catalog.Product) ProductDetail {
	sizes := make([]string, 0)
	seen := make(map[string]struct{})
	available := make(map[string]struct{})
	for _, v := range p.Variations {
		inStock := v.InStock()
		for _, attr := range v.Attributes {
			value := strings.ToLower(strings.TrimSpace(attr.Value))
			if value == "" {
				continue
			}
			if _, ok := seen[value]; !ok {
				seen[value] = struct{}{}
				sizes = append(sizes, value)
			}
			if inStock {
				available[value] = struct{}{}
			}
		}
	}
	if len(sizes) == 0 {
		sizes = append(sizes, defaultSizes...)
	}
	availableSizes := make([]string, 0, len(sizes))
	for _, size := range sizes {
		if _, ok := available[size]; ok {
			availableSizes = append(availableSizes, size)
		}
	}
	if len(availableSizes) == 0 {
		availableSizes = append(availableSizes, sizes...)
	}

	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if strings.TrimSpace(img) != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		images = []string{defaultProductImage}
	}

	return ProductDetail{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Price:          productPrice(p),
		Images:         images,
		Description:    catalog.DescriptionLines(p.Description),
		Sizes:          sizes,
		AvailableSizes: availableSizes,
	}
}

// productPrice 优先父商品价格，否则取第一个有价格的变体
func productPrice(p catalog.Product) string {
	if price := catalog.FormatPrice(p.Price); price != "" {
		return price
	}
	for _, v := range p.Variations {
		if price := catalog.FormatPrice(v.Price); price != "" {
			return price
		}
	}
	return ""
}
