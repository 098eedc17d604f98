package public

import (
	"strings"

	handlershared "github.com/triaxx-pos/internal/http/handlers/shared"
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentLinkProcessRequest 顾客通过链接支付的请求
type PaymentLinkProcessRequest struct {
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// ProcessPaymentLink 通过支付链接付款
func (h *Handler) ProcessPaymentLink(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	var req PaymentLinkProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.PaymentLinkService.Redeem(c.Request.Context(), token, service.RedeemPaymentLinkInput{
		Method: req.PaymentMethod,
		Amount: req.Amount,
	})
	if err != nil {
		handlershared.RespondSettlementError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order_id":       result.OrderID,
		"status":         result.Status,
		"payment_status": result.PaymentStatus,
		"amount":         result.Amount,
		"currency":       result.Currency,
		"payment_method": result.Method,
		"paid_at":        result.PaidAt,
	})
}

// GetPaymentLinkDetails 支付链接详情
func (h *Handler) GetPaymentLinkDetails(c *gin.Context) {
	view, err := h.PaymentLinkService.Details(c.Param("token"))
	if err != nil {
		handlershared.RespondSettlementError(c, err)
		return
	}
	response.Success(c, view)
}
