package employee

import (
	handlershared "github.com/triaxx-pos/internal/http/handlers/shared"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondSettlementError(c *gin.Context, err error) {
	handlershared.RespondSettlementError(c, err)
}

func getPrincipal(c *gin.Context) (service.Principal, bool) {
	return handlershared.GetPrincipal(c)
}
