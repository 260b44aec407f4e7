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

const (
	wooAPIPath  = "/wp-json/wc/v3"
	wooPageSize = 100
)

// WooProvider WooCommerce REST v3 目录后端，同时支持远端下单
type WooProvider struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	transport      *transport
}

// NewWooProvider 创建 WooCommerce 后端
func NewWooProvider(cfg config.WooConfig, timeout time.Duration) (*WooProvider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" || strings.TrimSpace(cfg.ConsumerKey) == "" || strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return nil, fmt.Errorf("%w: woo base_url, consumer_key and consumer_secret are required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: woo base_url is invalid", ErrConfigInvalid)
	}
	return &WooProvider{
		baseURL:        baseURL,
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
		transport:      newTransport(timeout),
	}, nil
}

// Name 后端名称
func (p *WooProvider) Name() string {
	return constants.CatalogBackendWoo
}

// buildURL 拼接接口地址，鉴权参数放在 query 中
func (p *WooProvider) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	values := url.Values{}
	for key, list := range query {
		for _, v := range list {
			values.Add(key, v)
		}
	}
	values.Set("consumer_key", p.consumerKey)
	values.Set("consumer_secret", p.consumerSecret)
	return p.baseURL + wooAPIPath + path + "?" + values.Encode()
}

type wooImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type wooAttribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

type wooVariation struct {
	ID            int64          `json:"id"`
	Price         string         `json:"price"`
	StockStatus   string         `json:"stock_status"`
	StockQuantity *int           `json:"stock_quantity"`
	Attributes    []wooAttribute `json:"attributes"`
}

type wooProduct struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Price         string     `json:"price"`
	Description   string     `json:"description"`
	Images        []wooImage `json:"images"`
	StockStatus   string     `json:"stock_status"`
	StockQuantity *int       `json:"stock_quantity"`
}

func (w wooProduct) toProduct(variations []wooVariation) Product {
	product := Product{
		ID:            strconv.FormatInt(w.ID, 10),
		Slug:          w.Slug,
		Name:          w.Name,
		Price:         w.Price,
		Description:   w.Description,
		StockStatus:   normalizeWooStockStatus(w.StockStatus),
		StockQuantity: w.StockQuantity,
	}
	for _, img := range w.Images {
		if strings.TrimSpace(img.Src) != "" {
			product.Images = append(product.Images, img.Src)
		}
	}
	for _, v := range variations {
		variation := Variation{
			ID:            strconv.FormatInt(v.ID, 10),
			Price:         v.Price,
			StockStatus:   normalizeWooStockStatus(v.StockStatus),
			StockQuantity: v.StockQuantity,
		}
		options := make([]string, 0, len(v.Attributes))
		for _, attr := range v.Attributes {
			variation.Attributes = append(variation.Attributes, Attribute{Name: attr.Name, Value: attr.Option})
			options = append(options, attr.Option)
		}
		variation.Name = strings.TrimSpace(w.Name + " " + strings.Join(options, " "))
		product.Variations = append(product.Variations, variation)
	}
	return product
}

// normalizeWooStockStatus instock / outofstock / onbackorder 转为统一的大写枚举
func normalizeWooStockStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "instock":
		return constants.StockStatusInStock
	case "outofstock":
		return "OUT_OF_STOCK"
	case "onbackorder":
		return "ON_BACKORDER"
	default:
		return strings.ToUpper(strings.TrimSpace(status))
	}
}

func (p *WooProvider) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	return p.transport.fetchJSON(ctx, http.MethodGet, p.buildURL(path, query), nil, nil, dest)
}

func (p *WooProvider) listVariations(ctx context.Context, productID int64) ([]wooVariation, error) {
	var variations []wooVariation
	query := url.Values{"per_page": {strconv.Itoa(wooPageSize)}}
	if err := p.get(ctx, fmt.Sprintf("/products/%d/variations", productID), query, &variations); err != nil {
		return nil, err
	}
	return variations, nil
}

// ListProducts 商品列表（不含变体）
func (p *WooProvider) ListProducts(ctx context.Context) ([]Product, error) {
	var items []wooProduct
	query := url.Values{"per_page": {strconv.Itoa(wooPageSize)}, "status": {"publish"}}
	if err := p.get(ctx, "/products", query, &items); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(items))
	for _, item := range items {
		products = append(products, item.toProduct(nil))
	}
	return products, nil
}

// GetProductBySlug 按 slug 查询商品，可变商品附带变体
func (p *WooProvider) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var items []wooProduct
	if err := p.get(ctx, "/products", url.Values{"slug": {slug}}, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrProductNotFound
	}
	item := items[0]
	var variations []wooVariation
	if strings.EqualFold(item.Type, "variable") {
		var err error
		variations, err = p.listVariations(ctx, item.ID)
		if err != nil {
			return nil, err
		}
	}
	product := item.toProduct(variations)
	return &product, nil
}

// Ping 拉取一条商品确认凭据可用
func (p *WooProvider) Ping(ctx context.Context) error {
	var items []wooProduct
	return p.get(ctx, "/products", url.Values{"per_page": {"1"}}, &items)
}

type wooLineItem struct {
	ProductID   int64 `json:"product_id"`
	VariationID int64 `json:"variation_id,omitempty"`
	Quantity    int   `json:"quantity"`
}

type wooMeta struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wooBilling struct {
	FirstName string `json:"first_name"`
	Address1  string `json:"address_1,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type wooOrderRequest struct {
	Currency     string        `json:"currency,omitempty"`
	SetPaid      bool          `json:"set_paid"`
	Billing      wooBilling    `json:"billing"`
	CustomerNote string        `json:"customer_note,omitempty"`
	LineItems    []wooLineItem `json:"line_items"`
	MetaData     []wooMeta     `json:"meta_data,omitempty"`
}

type wooOrderResponse struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url"`
}

// PlaceOrder 在 WooCommerce 创建待支付订单
func (p *WooProvider) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrOrderInvalid)
	}
	payload := wooOrderRequest{
		Currency: strings.ToUpper(strings.TrimSpace(input.Currency)),
		Billing: wooBilling{
			FirstName: input.Customer.Name,
			Address1:  input.Customer.Address,
			Email:     input.Customer.Email,
			Phone:     input.Customer.Phone,
		},
		CustomerNote: input.Customer.Note,
		MetaData:     []wooMeta{{Key: "request_no", Value: input.OrderNo}},
	}
	for _, line := range input.Lines {
		productID, err := strconv.ParseInt(strings.TrimSpace(line.ProductID), 10, 64)
		if err != nil || productID <= 0 {
			return nil, fmt.Errorf("%w: product id %q", ErrOrderInvalid, line.ProductID)
		}
		item := wooLineItem{ProductID: productID, Quantity: line.Quantity}
		if strings.TrimSpace(line.VariationID) != "" {
			variationID, err := strconv.ParseInt(strings.TrimSpace(line.VariationID), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: variation id %q", ErrOrderInvalid, line.VariationID)
			}
			item.VariationID = variationID
		}
		payload.LineItems = append(payload.LineItems, item)
	}

	var resp wooOrderResponse
	if err := p.transport.fetchJSON(ctx, http.MethodPost, p.buildURL("/orders", nil), nil, payload, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	return &PlacedOrder{
		RemoteID:   strconv.FormatInt(resp.ID, 10),
		PaymentURL: strings.TrimSpace(resp.PaymentURL),
	}, nil
}
