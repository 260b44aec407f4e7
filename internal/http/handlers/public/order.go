package public

import (
	"time"

	handlershared "github.com/gang-ground/internal/http/handlers/shared"
	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/models"

	"github.com/gin-gonic/gin"
)

// OrderItemView 请求明细
type OrderItemView struct {
	Slug       string       `json:"slug"`
	Name       string       `json:"name"`
	Size       string       `json:"size,omitempty"`
	PriceLabel string       `json:"price_label"`
	UnitPrice  models.Money `json:"unit_price"`
	Quantity   int          `json:"quantity"`
	TotalPrice models.Money `json:"total_price"`
}

// OrderView 请求状态，不含联系人信息
type OrderView struct {
	OrderNo     string          `json:"order_no"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	TotalItems  int             `json:"total_items"`
	TotalAmount models.Money    `json:"total_amount"`
	PaymentURL  string          `json:"payment_url,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ExpiredAt   *time.Time      `json:"expired_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItemView `json:"items"`
}

func newOrderView(order *models.Order) OrderView {
	view := OrderView{
		OrderNo:     order.OrderNo,
		Status:      order.Status,
		Currency:    order.Currency,
		TotalItems:  order.TotalItems,
		TotalAmount: order.TotalAmount,
		PaymentURL:  order.PaymentURL,
		ExpiresAt:   order.ExpiresAt,
		ExpiredAt:   order.ExpiredAt,
		CreatedAt:   order.CreatedAt,
		Items:       make([]OrderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			Slug:       item.Slug,
			Name:       item.Name,
			Size:       item.Size,
			PriceLabel: item.PriceLabel,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return view
}

// GetOrder 按请求编号查询状态
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.GetByOrderNo(c.Param("order_no"))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, newOrderView(order))
}

// ListOrders 当前会话的请求列表
func (h *Handler) ListOrders(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListBySession(sessionID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	response.SuccessWithPage(c, views, handlershared.BuildPagination(page, pageSize, total))
}
