package employee

import "github.com/triaxx-pos/internal/provider"

// Handler 收银员工接口处理器入口
// 说明：该处理器下所有路由都经过员工令牌鉴权。
type Handler struct {
	*provider.Container
}

// New 创建员工处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
