package public

import (
	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Price string `json:"price"`
	Image string `json:"image"`
	Size  string `json:"size"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	state, err := h.CartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, h.CartService.View(state))
}

// AddCartItem 加购，同一商品同一尺码合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	state, err := h.CartService.Add(c.Request.Context(), sessionID, cart.Candidate{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
		Size:  req.Size,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, h.CartService.View(state))
}

// UpdateCartItem 修改行项目数量，数量小于等于 0 时删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	state, err := h.CartService.UpdateQuantity(c.Request.Context(), sessionID, c.Param("key"), *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, h.CartService.View(state))
}

// RemoveCartItem 删除行项目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	state, err := h.CartService.Remove(c.Request.Context(), sessionID, c.Param("key"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, h.CartService.View(state))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	state, err := h.CartService.Clear(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, h.CartService.View(state))
}
