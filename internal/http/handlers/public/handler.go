package public

import "github.com/gang-ground/internal/provider"

// Handler 店面公开接口处理器入口
// 说明：购物车与下单接口按购物车会话隔离，无用户体系。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
