package public

import "github.com/triaxx-pos/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器仅用于无需登录的顾客侧 API（支付链接）。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
