package public

import (
	"errors"
	"strings"

	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutItemRequest 结账条目；为空时使用会话购物车
type CheckoutItemRequest struct {
	Slug     string `json:"slug"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest 结账请求
type CheckoutRequest struct {
	Name    string                `json:"name" binding:"required"`
	Phone   string                `json:"phone" binding:"required"`
	Email   string                `json:"email" binding:"required,email"`
	Address string                `json:"address"`
	Comment string                `json:"comment"`
	Items   []CheckoutItemRequest `json:"items"`
}

// CheckoutFailureData 结账校验失败数据
type CheckoutFailureData struct {
	Reason   string `json:"reason"`
	ItemName string `json:"item_name,omitempty"`
	Size     string `json:"size,omitempty"`
}

// Checkout 提交下单请求
func (h *Handler) Checkout(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CheckoutItem{
			Slug:     strings.TrimSpace(item.Slug),
			ID:       strings.TrimSpace(item.ID),
			Name:     strings.TrimSpace(item.Name),
			Price:    item.Price,
			Size:     strings.TrimSpace(item.Size),
			Quantity: item.Quantity,
		})
	}

	result, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		SessionID: sessionID,
		Locale:    i18n.ResolveLocale(c),
		Contact: service.Contact{
			Name:    strings.TrimSpace(req.Name),
			Phone:   strings.TrimSpace(req.Phone),
			Email:   strings.TrimSpace(req.Email),
			Address: strings.TrimSpace(req.Address),
			Comment: strings.TrimSpace(req.Comment),
		},
		Items: items,
	})
	if err != nil {
		var failure *service.CheckoutFailure
		if errors.As(err, &failure) {
			respondErrorWithData(c, response.CodeUnprocessable, failure.Message, CheckoutFailureData{
				Reason:   failure.Reason,
				ItemName: failure.ItemName,
				Size:     failure.Size,
			}, nil)
			return
		}
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
		return
	}
	response.Success(c, result)
}
