package service

import (
	"fmt"
	"strings"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Coupon 优惠券定义
type Coupon struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	MinOrder decimal.Decimal `json:"min_order"`
}

// CouponTable 只读优惠券表，key 为大写优惠码
type CouponTable map[string]Coupon

// NewCouponTable 构建优惠券表
func NewCouponTable(coupons ...Coupon) CouponTable {
	table := make(CouponTable, len(coupons))
	for _, c := range coupons {
		code := normalizeCouponCode(c.Code)
		if code == "" {
			continue
		}
		c.Code = code
		table[code] = c
	}
	return table
}

// CouponTableFromConfig 从配置构建优惠券表
func CouponTableFromConfig(items []config.CouponConfig) (CouponTable, error) {
	coupons := make([]Coupon, 0, len(items))
	for _, item := range items {
		couponType := strings.ToLower(strings.TrimSpace(item.Type))
		if couponType != constants.CouponTypePercentage && couponType != constants.CouponTypeFixed {
			return nil, fmt.Errorf("coupon %s: unsupported type %q", item.Code, item.Type)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(item.Value))
		if err != nil {
			return nil, fmt.Errorf("coupon %s: invalid value: %w", item.Code, err)
		}
		minOrder := decimal.Zero
		if raw := strings.TrimSpace(item.MinOrder); raw != "" {
			minOrder, err = decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("coupon %s: invalid min_order: %w", item.Code, err)
			}
		}
		coupons = append(coupons, Coupon{Code: item.Code, Type: couponType, Value: value, MinOrder: minOrder})
	}
	return NewCouponTable(coupons...), nil
}

// CouponResult 优惠计算结果
type CouponResult struct {
	Coupon      Coupon          `json:"coupon"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// CouponEvaluator 优惠券计算器
type CouponEvaluator struct {
	table CouponTable
}

// NewCouponEvaluator 创建优惠券计算器
func NewCouponEvaluator(table CouponTable) *CouponEvaluator {
	if table == nil {
		table = CouponTable{}
	}
	return &CouponEvaluator{table: table}
}

// Evaluate 按订单合计计算优惠，优惠码不区分大小写。优惠额先按金额精度取整，应付额由取整后的优惠额推出
func (e *CouponEvaluator) Evaluate(code string, total decimal.Decimal) (*CouponResult, error) {
	coupon, ok := e.table[normalizeCouponCode(code)]
	if !ok {
		return nil, ErrInvalidCoupon
	}
	if total.LessThan(coupon.MinOrder) {
		return nil, ErrMinimumOrderNotMet
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case constants.CouponTypePercentage:
		discount = models.RoundMoney(total.Mul(coupon.Value).Div(hundred))
	case constants.CouponTypeFixed:
		discount = decimal.Min(coupon.Value, total)
	default:
		return nil, ErrInvalidCoupon
	}

	final := total.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return &CouponResult{Coupon: coupon, Discount: discount, FinalAmount: final}, nil
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
