package shared

import (
	"errors"

	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 按规则顺序匹配错误，未命中时按兜底码返回并记录原始错误
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// SettlementErrorRules 结算引擎错误映射
var SettlementErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrPaymentLinkNotFound, Code: response.CodeNotFound, Key: "error.payment_link_not_found"},
	{Target: service.ErrTransactionNotFound, Code: response.CodeNotFound, Key: "error.transaction_not_found"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.order_forbidden"},
	{Target: service.ErrInvalidOrderState, Code: response.CodeConflict, Key: "error.order_invalid_state"},
	{Target: service.ErrAlreadyPaid, Code: response.CodeConflict, Key: "error.order_already_paid"},
	{Target: service.ErrTransactionExists, Code: response.CodeConflict, Key: "error.transaction_exists"},
	{Target: service.ErrAlreadyCompleted, Code: response.CodeConflict, Key: "error.order_already_completed"},
	{Target: service.ErrAlreadyCancelled, Code: response.CodeConflict, Key: "error.order_already_cancelled"},
	{Target: service.ErrCannotCompleteCancelled, Code: response.CodeConflict, Key: "error.order_cannot_complete_cancelled"},
	{Target: service.ErrCannotCancelCompleted, Code: response.CodeConflict, Key: "error.order_cannot_cancel_completed"},
	{Target: service.ErrPaymentLinkExpired, Code: response.CodeGone, Key: "error.payment_link_expired"},
	{Target: service.ErrAmountMismatch, Code: response.CodeBadRequest, Key: "error.amount_mismatch"},
	{Target: service.ErrMethodNotAllowed, Code: response.CodeBadRequest, Key: "error.method_not_allowed"},
	{Target: service.ErrInvalidCoupon, Code: response.CodeBadRequest, Key: "error.coupon_invalid"},
	{Target: service.ErrMinimumOrderNotMet, Code: response.CodeBadRequest, Key: "error.coupon_minimum_not_met"},
	{Target: service.ErrInvalidSplit, Code: response.CodeBadRequest, Key: "error.split_invalid"},
	{Target: service.ErrInvalidOrderItem, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrInvalidOrderInput, Code: response.CodeBadRequest, Key: "error.order_input_invalid"},
	{Target: service.ErrInvalidPaymentMethod, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrPaymentLinkExpiryInvalid, Code: response.CodeBadRequest, Key: "error.payment_link_expiry_invalid"},
	{Target: service.ErrInvalidTransactionStatus, Code: response.CodeBadRequest, Key: "error.transaction_status_invalid"},
	{Target: service.ErrInvalidTransactionInput, Code: response.CodeBadRequest, Key: "error.transaction_input_invalid"},
}

// RespondSettlementError 结算相关错误统一出口，未知错误按 500 记录
func RespondSettlementError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, SettlementErrorRules, response.CodeInternal, "error.internal")
}
