package shared

import (
	"strconv"
	"strings"

	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// PrincipalContextKey 鉴权中间件写入员工身份的上下文键
const PrincipalContextKey = "principal"

// GetPrincipal 读取鉴权中间件写入的员工身份，缺失时直接返回 401
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return service.Principal{}, false
	}
	principal, ok := value.(service.Principal)
	if !ok || principal.UserID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
		return service.Principal{}, false
	}
	return principal, true
}

// ParseUintParam 解析路径中的正整数 ID，非法时返回 400
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
