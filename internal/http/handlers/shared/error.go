package shared

import (
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/i18n"
	"github.com/triaxx-pos/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应；有原始错误时记录 handler_error，5xx 记为 error 级别。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, key, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		fields := []interface{}{
			"code", appErr.Code,
			"key", appErr.Key,
			"path", c.FullPath(),
			"error", err,
		}
		if appErr.IsServerError() {
			RequestLog(c).Errorw("handler_error", fields...)
		} else {
			RequestLog(c).Warnw("handler_error", fields...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
