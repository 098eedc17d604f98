package employee

import (
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest 单笔支付请求
type ProcessPaymentRequest struct {
	OrderID       uint            `json:"order_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
}

// CouponPaymentRequest 优惠券支付请求，amount 为优惠后应付
type CouponPaymentRequest struct {
	OrderID       uint            `json:"order_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	CouponCode    string          `json:"coupon_code" binding:"required"`
}

// SplitAmountsRequest 拆分金额计算请求
type SplitAmountsRequest struct {
	OrderID    uint `json:"order_id" binding:"required"`
	SplitCount int  `json:"split_count" binding:"required"`
}

// SplitPartRequest 拆分支付中的一笔
type SplitPartRequest struct {
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
}

// SplitPaymentRequest 拆分支付请求
type SplitPaymentRequest struct {
	OrderID  uint               `json:"order_id" binding:"required"`
	Payments []SplitPartRequest `json:"payments" binding:"required"`
}

// PaymentLinkRequest 生成支付链接请求
type PaymentLinkRequest struct {
	OrderID        uint     `json:"order_id" binding:"required"`
	ExpiryHours    int      `json:"expiry_hours"`
	AllowedMethods []string `json:"allowed_methods"`
}

// ProcessPayment 单笔支付
func (h *Handler) ProcessPayment(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.OrderService.ProcessPayment(c.Request.Context(), principal, service.ProcessPaymentInput{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  req.PaymentMethod,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, result)
}

// ProcessPaymentWithCoupon 使用优惠券支付
func (h *Handler) ProcessPaymentWithCoupon(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CouponPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.OrderService.ProcessPaymentWithCoupon(c.Request.Context(), principal, service.CouponPaymentInput{
		OrderID:    req.OrderID,
		Amount:     req.Amount,
		Method:     req.PaymentMethod,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, result)
}

// CalculateSplitAmounts 计算均分金额
func (h *Handler) CalculateSplitAmounts(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req SplitAmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.OrderService.CalculateSplitAmounts(principal, req.OrderID, req.SplitCount)
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, result)
}

// ProcessSplitPayment 拆分支付
func (h *Handler) ProcessSplitPayment(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req SplitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	parts := make([]service.SplitPart, 0, len(req.Payments))
	for _, part := range req.Payments {
		parts = append(parts, service.SplitPart{Method: part.PaymentMethod, Amount: part.Amount})
	}
	result, err := h.OrderService.ProcessSplitPayment(c.Request.Context(), principal, service.SplitPaymentInput{
		OrderID:  req.OrderID,
		Payments: parts,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, result)
}

// GeneratePaymentLink 生成支付链接，原始令牌只在本次响应中返回
func (h *Handler) GeneratePaymentLink(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	link, err := h.PaymentLinkService.Issue(c.Request.Context(), principal, service.IssuePaymentLinkInput{
		OrderID:        req.OrderID,
		ExpiryHours:    req.ExpiryHours,
		AllowedMethods: req.AllowedMethods,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, link)
}
