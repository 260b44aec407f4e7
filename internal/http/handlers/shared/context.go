package shared

import (
	"strings"

	"github.com/gang-ground/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartSessionKey 上下文中购物车会话 ID 的键
const CartSessionKey = "cart_session_id"

// GetCartSessionID 从上下文读取购物车会话 ID，缺失时直接返回错误响应。
func GetCartSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(CartSessionKey)
	if !exists {
		RespondError(c, response.CodeBadRequest, "error.cart_session_invalid", nil)
		return "", false
	}
	sessionID, ok := value.(string)
	if !ok || strings.TrimSpace(sessionID) == "" {
		RespondError(c, response.CodeBadRequest, "error.cart_session_invalid", nil)
		return "", false
	}
	return sessionID, true
}
