package service

import (
	"strings"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"

	"github.com/shopspring/decimal"
)

// splitTolerance 拆分支付合计允许的误差（0.01 个货币单位）
var splitTolerance = decimal.New(1, -2)

// minSplitParts 拆分支付最少笔数
const minSplitParts = 2

// SplitPart 拆分支付中的一笔
type SplitPart struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentValidator 支付金额与前置条件校验
type PaymentValidator struct{}

// NewPaymentValidator 创建校验器
func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{}
}

// CheckPayable 订单必须已上菜或已完成，且尚未支付
func (v *PaymentValidator) CheckPayable(order *models.Order) error {
	switch order.Status {
	case constants.OrderStatusServed, constants.OrderStatusCompleted:
	default:
		return ErrInvalidOrderState
	}
	if order.IsPaid() {
		return ErrAlreadyPaid
	}
	return nil
}

// ValidateExact 单笔或优惠后支付：金额必须严格相等
func (v *PaymentValidator) ValidateExact(expected, proposed decimal.Decimal) error {
	if !expected.Equal(proposed) {
		return ErrAmountMismatch
	}
	return nil
}

// ValidateSplit 拆分支付：每笔金额为正且有支付方式，合计与应付误差不超过 0.01
func (v *PaymentValidator) ValidateSplit(expected decimal.Decimal, parts []SplitPart) error {
	if len(parts) < minSplitParts {
		return ErrInvalidSplit
	}
	sum := decimal.Zero
	for _, part := range parts {
		if strings.TrimSpace(part.Method) == "" || !part.Amount.IsPositive() {
			return ErrInvalidSplit
		}
		sum = sum.Add(part.Amount)
	}
	if sum.Sub(expected).Abs().GreaterThan(splitTolerance) {
		return ErrAmountMismatch
	}
	return nil
}

// SplitAmounts 将合计按分均摊：每份先取两位小数向下取整，
// 剩余的分从第一份开始逐份加 0.01，保证合计与原金额一致
func SplitAmounts(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 || total.IsNegative() {
		return nil, ErrInvalidSplit
	}
	ways := decimal.NewFromInt(int64(n))
	cents, _ := total.Mul(hundred).QuoRem(ways, 0)
	base := cents.Div(hundred)
	remainder := total.Sub(base.Mul(ways)).Mul(hundred).Round(0).IntPart()

	cent := decimal.New(1, -2)
	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
		if int64(i) < remainder {
			parts[i] = base.Add(cent)
		}
	}
	return parts, nil
}
