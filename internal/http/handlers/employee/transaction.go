package employee

import (
	"strconv"
	"strings"

	handlershared "github.com/triaxx-pos/internal/http/handlers/shared"
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/repository"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest 手工补录流水请求
type RecordTransactionRequest struct {
	MerchantID        uint            `json:"merchant_id"`
	OrderID           *uint           `json:"order_id"`
	CustomerID        uint            `json:"customer_id" binding:"required"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	PaymentMethodUsed string          `json:"payment_method_used" binding:"required"`
	PaymentProvider   string          `json:"payment_provider"`
	ProviderReference string          `json:"provider_reference"`
	Currency          string          `json:"currency"`
	Notes             string          `json:"notes"`
}

// UpdateTransactionRequest 流水状态更新，未传的字段保持不变
type UpdateTransactionRequest struct {
	TransactionStatus *string `json:"transaction_status"`
	SettlementStatus  *string `json:"settlement_status"`
}

// RecordTransaction 手工补录流水
func (h *Handler) RecordTransaction(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	txn, err := h.TransactionService.Record(principal, service.RecordTransactionInput{
		MerchantID:        req.MerchantID,
		OrderID:           req.OrderID,
		CustomerID:        req.CustomerID,
		Amount:            req.TransactionAmount,
		PaymentMethod:     req.PaymentMethodUsed,
		PaymentProvider:   req.PaymentProvider,
		ProviderReference: req.ProviderReference,
		Currency:          req.Currency,
		Notes:             req.Notes,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, txn)
}

// ListMerchantTransactions 商户流水列表
func (h *Handler) ListMerchantTransactions(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	merchantID, ok := handlershared.ParseUintParam(c, "merchant_id")
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	var orderID uint
	if raw := strings.TrimSpace(c.Query("order_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		orderID = uint(parsed)
	}

	txns, total, err := h.TransactionService.ListByMerchant(principal, repository.TransactionListFilter{
		Page:             page,
		PageSize:         pageSize,
		MerchantID:       merchantID,
		OrderID:          orderID,
		SettlementStatus: strings.TrimSpace(c.Query("settlement_status")),
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.SuccessWithPage(c, txns, response.NewPagination(page, pageSize, total))
}

// GetTransaction 流水详情
func (h *Handler) GetTransaction(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	txn, err := h.TransactionService.GetByID(principal, id)
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, txn)
}

// UpdateTransaction 更新流水状态
func (h *Handler) UpdateTransaction(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	txn, err := h.TransactionService.UpdateStatus(principal, id, service.TransactionPatch{
		TransactionStatus: req.TransactionStatus,
		SettlementStatus:  req.SettlementStatus,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, txn)
}
