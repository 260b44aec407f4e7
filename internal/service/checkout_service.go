package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/catalog"
	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/queue"
	"github.com/gang-ground/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact 下单联系人
type Contact struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Comment string
}

// CheckoutItem 待校验的购物车条目
type CheckoutItem struct {
	Slug     string
	ID       string
	Name     string
	Price    string
	Size     string
	Quantity int
}

// CheckoutInput 结账输入；Items 为空时使用会话购物车
type CheckoutInput struct {
	SessionID string
	Locale    string
	Contact   Contact
	Items     []CheckoutItem
}

// CheckoutResult 结账结果
type CheckoutResult struct {
	OrderNo    string     `json:"order_no"`
	Status     string     `json:"status"`
	PaymentURL string     `json:"payment_url,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// CheckoutFailure 结账校验失败，Message 已按语言本地化
type CheckoutFailure struct {
	Reason   string
	Message  string
	ItemName string
	Size     string
}

func (f *CheckoutFailure) Error() string {
	return "checkout " + f.Reason + ": " + f.Message
}

// CheckoutOptions 结账配置
type CheckoutOptions struct {
	PlaceRemoteOrder     bool
	Currency             string
	PaymentExpireMinutes int
}

// CheckoutService 结账服务
type CheckoutService struct {
	catalog     catalog.Provider
	carts       *CartService
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	opts        CheckoutOptions
	now         func() time.Time
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(provider catalog.Provider, carts *CartService, orderRepo repository.OrderRepository, queueClient *queue.Client, opts CheckoutOptions) *CheckoutService {
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = "RUB"
	}
	return &CheckoutService{
		catalog:     provider,
		carts:       carts,
		orderRepo:   orderRepo,
		queueClient: queueClient,
		opts:        opts,
		now:         time.Now,
	}
}

// resolvedItem 校验通过的条目
type resolvedItem struct {
	item      CheckoutItem
	product   *catalog.Product
	variation *catalog.Variation
}

// Checkout 校验购物车并创建下单请求
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := validateContact(input.Contact); err != nil {
		return nil, err
	}
	items := input.Items
	if len(items) == 0 && strings.TrimSpace(input.SessionID) != "" {
		state, err := s.carts.Get(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		items = checkoutItemsFromState(state)
	}
	items = dropEmptyItems(items)
	if len(items) == 0 {
		return nil, newCheckoutFailure(input.Locale, constants.CheckoutReasonCartEmpty, CheckoutItem{})
	}

	resolved, err := s.validate(ctx, input.Locale, items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	orderNo := generateOrderNo(now)

	order, orderItems := s.buildOrder(orderNo, input, resolved)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, orderItems)
	})
	if err != nil {
		logger.Errorw("checkout_order_create_failed", "order_no", orderNo, "error", err)
		return nil, ErrOrderCreateFailed
	}

	if placer, ok := catalog.AsOrderPlacer(s.catalog); ok && s.opts.PlaceRemoteOrder {
		placed, err := placer.PlaceOrder(ctx, buildPlaceOrderInput(orderNo, s.opts.Currency, input.Contact, resolved))
		if err != nil {
			logger.Warnw("checkout_remote_order_failed", "order_no", orderNo, "backend", s.catalog.Name(), "error", err)
			if _, markErr := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusSubmitted, constants.OrderStatusFailed, nil); markErr != nil {
				logger.Errorw("checkout_order_mark_failed_failed", "order_no", orderNo, "error", markErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		s.attachRemoteOrder(order, placed, now)
	}

	if strings.TrimSpace(input.SessionID) != "" {
		if _, err := s.carts.Clear(ctx, input.SessionID); err != nil {
			logger.Warnw("checkout_cart_clear_failed", "order_no", orderNo, "error", err)
		}
	}

	logger.Infow("checkout_order_created",
		"order_no", order.OrderNo,
		"status", order.Status,
		"total_items", order.TotalItems,
		"backend", order.CatalogBackend,
	)
	return &CheckoutResult{
		OrderNo:    order.OrderNo,
		Status:     order.Status,
		PaymentURL: order.PaymentURL,
		ExpiresAt:  order.ExpiresAt,
	}, nil
}

// validate 逐项校验商品、变体与库存，遇到第一个失败即返回
func (s *CheckoutService) validate(ctx context.Context, locale string, items []CheckoutItem) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		entry := resolvedItem{item: item}
		slug := strings.TrimSpace(item.Slug)
		if slug == "" {
			slug = catalog.Slugify(strings.TrimSpace(item.Name))
		}
		if slug == "" {
			resolved = append(resolved, entry)
			continue
		}
		product, err := s.catalog.GetProductBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, newCheckoutFailure(locale, constants.CheckoutReasonProductNotFound, item)
			}
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		entry.product = product
		if product.HasVariations() {
			variation, ok := product.MatchVariation(item.Size)
			if !ok {
				return nil, newCheckoutFailure(locale, constants.CheckoutReasonVariantNotFound, item)
			}
			if !variation.InStock() {
				return nil, newCheckoutFailure(locale, constants.CheckoutReasonOutOfStock, item)
			}
			entry.variation = variation
		} else if strings.TrimSpace(product.StockStatus) != "" && !catalog.IsInStock(product.StockStatus, product.StockQuantity) {
			return nil, newCheckoutFailure(locale, constants.CheckoutReasonOutOfStock, item)
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

func (s *CheckoutService) buildOrder(orderNo string, input CheckoutInput, resolved []resolvedItem) (*models.Order, []models.OrderItem) {
	order := &models.Order{
		OrderNo:        orderNo,
		SessionID:      strings.TrimSpace(input.SessionID),
		Currency:       strings.ToUpper(strings.TrimSpace(s.opts.Currency)),
		ContactName:    strings.TrimSpace(input.Contact.Name),
		ContactPhone:   strings.TrimSpace(input.Contact.Phone),
		ContactEmail:   strings.TrimSpace(input.Contact.Email),
		ContactAddress: strings.TrimSpace(input.Contact.Address),
		ContactComment: strings.TrimSpace(input.Contact.Comment),
		Locale:         input.Locale,
		CatalogBackend: s.catalog.Name(),
		Status:         constants.OrderStatusSubmitted,
	}

	total := models.NewMoneyFromInt(0)
	orderItems := make([]models.OrderItem, 0, len(resolved))
	for _, entry := range resolved {
		item := entry.item
		unit := models.NewMoneyFromInt(cart.ParsePrice(item.Price))
		lineTotal := unit.Mul(item.Quantity)
		orderItem := models.OrderItem{
			ProductID:  item.ID,
			Slug:       item.Slug,
			Name:       item.Name,
			Size:       item.Size,
			PriceLabel: item.Price,
			UnitPrice:  unit,
			Quantity:   item.Quantity,
			TotalPrice: lineTotal,
		}
		if entry.product != nil && orderItem.Slug == "" {
			orderItem.Slug = entry.product.Slug
		}
		if entry.variation != nil {
			orderItem.VariationID = entry.variation.ID
		}
		orderItems = append(orderItems, orderItem)
		total = total.Add(lineTotal)
		order.TotalItems += item.Quantity
	}
	order.TotalAmount = total
	return order, orderItems
}

// attachRemoteOrder 写回远端订单号与支付地址；写回失败时本地记录保持 submitted，远端单号记入日志
func (s *CheckoutService) attachRemoteOrder(order *models.Order, placed *catalog.PlacedOrder, now time.Time) {
	if placed == nil {
		return
	}
	status := initialOrderStatus(placed.PaymentURL)
	updates := map[string]interface{}{
		"remote_order_id": placed.RemoteID,
		"payment_url":     placed.PaymentURL,
	}
	var expiresAt *time.Time
	if status == constants.OrderStatusPendingPayment {
		minutes := s.opts.PaymentExpireMinutes
		if minutes <= 0 {
			minutes = 30
		}
		deadline := now.Add(time.Duration(minutes) * time.Minute)
		expiresAt = &deadline
		updates["expires_at"] = deadline
	}

	order.RemoteOrderID = placed.RemoteID
	order.PaymentURL = placed.PaymentURL
	updated, err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusSubmitted, status, updates)
	if err != nil || !updated {
		logger.Errorw("checkout_remote_order_attach_failed",
			"order_no", order.OrderNo,
			"remote_order_id", placed.RemoteID,
			"error", err,
		)
		return
	}
	order.Status = status
	order.ExpiresAt = expiresAt
	if status != constants.OrderStatusPendingPayment {
		return
	}
	delay := expiresAt.Sub(now)
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID, OrderNo: order.OrderNo}, delay); err != nil {
		logger.Warnw("checkout_enqueue_timeout_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

func buildPlaceOrderInput(orderNo, currency string, contact Contact, resolved []resolvedItem) catalog.PlaceOrderInput {
	input := catalog.PlaceOrderInput{
		OrderNo:  orderNo,
		Currency: currency,
		Customer: catalog.Customer{
			Name:    strings.TrimSpace(contact.Name),
			Phone:   strings.TrimSpace(contact.Phone),
			Email:   strings.TrimSpace(contact.Email),
			Address: strings.TrimSpace(contact.Address),
			Note:    strings.TrimSpace(contact.Comment),
		},
	}
	for _, entry := range resolved {
		line := catalog.OrderLine{ProductID: entry.item.ID, Quantity: entry.item.Quantity}
		if entry.product != nil {
			line.ProductID = entry.product.ID
		}
		if entry.variation != nil {
			line.VariationID = entry.variation.ID
		}
		input.Lines = append(input.Lines, line)
	}
	return input
}

func validateContact(contact Contact) error {
	if strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Phone) == "" || strings.TrimSpace(contact.Email) == "" {
		return ErrContactInvalid
	}
	return nil
}

func checkoutItemsFromState(state cart.State) []CheckoutItem {
	items := make([]CheckoutItem, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, CheckoutItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Size:     item.Size,
			Quantity: item.Quantity,
		})
	}
	return items
}

// dropEmptyItems 丢弃数量非正的条目
func dropEmptyItems(items []CheckoutItem) []CheckoutItem {
	kept := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}

func newCheckoutFailure(locale, reason string, item CheckoutItem) *CheckoutFailure {
	key := "checkout." + reason
	var message string
	switch reason {
	case constants.CheckoutReasonCartEmpty:
		message = i18n.T(locale, key)
	case constants.CheckoutReasonProductNotFound:
		message = i18n.Sprintf(locale, key, item.Name)
	default:
		message = i18n.Sprintf(locale, key, item.Name, item.Size)
	}
	return &CheckoutFailure{
		Reason:   reason,
		Message:  message,
		ItemName: item.Name,
		Size:     item.Size,
	}
}

// generateOrderNo REQ-<毫秒时间戳>-<6 位随机十六进制>
func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("REQ-%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
