package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/metrics"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultMaxSplitWays = 50

// OrderService 订单结算服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	catalogRepo  repository.CatalogRepository
	pricing      *PricingResolver
	coupons      *CouponEvaluator
	validator    *PaymentValidator
	recorder     *SettlementRecorder
	notifier     *SettlementNotifier
	currency     string
	maxSplitWays int
	now          func() time.Time
}

// NewOrderService 创建订单结算服务
func NewOrderService(orderRepo repository.OrderRepository, catalogRepo repository.CatalogRepository, coupons *CouponEvaluator, recorder *SettlementRecorder, notifier *SettlementNotifier, currency string, maxSplitWays int) *OrderService {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	if maxSplitWays < 2 {
		maxSplitWays = defaultMaxSplitWays
	}
	if coupons == nil {
		coupons = NewCouponEvaluator(nil)
	}
	return &OrderService{
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		pricing:      NewPricingResolver(catalogRepo),
		coupons:      coupons,
		validator:    NewPaymentValidator(),
		recorder:     recorder,
		notifier:     notifier,
		currency:     currency,
		maxSplitWays: maxSplitWays,
		now:          time.Now,
	}
}

// CreateOrderItem 下单项输入
type CreateOrderItem struct {
	ItemID    uint
	Quantity  int
	AddonID   *uint
	VariantID *uint
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	RestaurantID uint
	CustomerID   *uint
	TableNo      string
	Tax          decimal.Decimal
	Items        []CreateOrderItem
}

// OrderDetails 订单详情（含计价明细）
type OrderDetails struct {
	Order   *models.Order `json:"order"`
	Pricing *OrderPricing `json:"pricing"`
}

// ProcessPaymentInput 单笔支付输入
type ProcessPaymentInput struct {
	OrderID uint
	Amount  decimal.Decimal
	Method  string
}

// CouponPaymentInput 使用优惠券支付输入
type CouponPaymentInput struct {
	OrderID    uint
	Amount     decimal.Decimal
	Method     string
	CouponCode string
}

// SplitPaymentInput 拆分支付输入
type SplitPaymentInput struct {
	OrderID  uint
	Payments []SplitPart
}

// SplitAmountsResult 拆分金额计算结果
type SplitAmountsResult struct {
	OrderID  uint              `json:"order_id"`
	Total    decimal.Decimal   `json:"total"`
	Currency string            `json:"currency"`
	Amounts  []decimal.Decimal `json:"amounts"`
}

// PaymentResult 支付成功后的展示投影
type PaymentResult struct {
	OrderID       uint             `json:"order_id"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	Method        string           `json:"method"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
	TransactionID *uint            `json:"transaction_id,omitempty"`
	CouponCode    string           `json:"coupon_code,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	FinalAmount   *decimal.Decimal `json:"final_amount,omitempty"`
	SplitPayments []SplitPart      `json:"split_payments,omitempty"`
}

// CreateOrder 下单：校验菜品存在且可售，计算并保存小计与合计
func (s *OrderService) CreateOrder(ctx context.Context, p Principal, input CreateOrderInput) (*models.Order, error) {
	restaurantID := input.RestaurantID
	if p.RestaurantScoped() {
		restaurantID = p.UserID
	}
	if restaurantID == 0 || len(input.Items) == 0 || input.Tax.IsNegative() {
		return nil, ErrInvalidOrderInput
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if err := s.checkOrderItem(restaurantID, in); err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ItemID:    in.ItemID,
			Quantity:  in.Quantity,
			AddonID:   in.AddonID,
			VariantID: in.VariantID,
			Status:    constants.OrderStatusPending,
		})
	}

	now := s.now()
	order := &models.Order{
		RestaurantID:  restaurantID,
		CustomerID:    input.CustomerID,
		TableNo:       strings.TrimSpace(input.TableNo),
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      s.currency,
		Tax:           models.NewMoney(input.Tax),
		CreatedBy:     p.UserID,
		UpdatedBy:     p.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         items,
	}
	pricing, err := s.pricing.PriceOrder(order)
	if err != nil {
		return nil, err
	}
	order.Subtotal = models.NewMoney(pricing.Subtotal)
	order.Total = models.NewMoney(pricing.Total)
	order.Items = nil

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	metrics.RecordSettlementOperation("create_order", err == nil)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *OrderService) checkOrderItem(restaurantID uint, in CreateOrderItem) error {
	if in.ItemID == 0 || in.Quantity <= 0 {
		return ErrInvalidOrderItem
	}
	item, err := s.catalogRepo.GetItem(in.ItemID)
	if err != nil {
		return err
	}
	if item == nil || !item.IsActive || item.RestaurantID != restaurantID {
		return ErrInvalidOrderItem
	}
	if in.AddonID != nil {
		addon, err := s.catalogRepo.GetAddon(*in.AddonID)
		if err != nil {
			return err
		}
		if addon == nil || addon.RestaurantID != restaurantID {
			return ErrInvalidOrderItem
		}
	}
	if in.VariantID != nil {
		variant, err := s.catalogRepo.GetVariant(*in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.RestaurantID != restaurantID {
			return ErrInvalidOrderItem
		}
	}
	return nil
}

// ListOrders 分页查询订单，餐厅账号只能看到自己的订单
func (s *OrderService) ListOrders(p Principal, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if p.RestaurantScoped() {
		filter.RestaurantID = p.UserID
	}
	return s.orderRepo.List(filter)
}

// GetOrderDetails 订单详情与计价明细
func (s *OrderService) GetOrderDetails(p Principal, orderID uint) (*OrderDetails, error) {
	order, err := s.loadOwnedOrder(p, orderID)
	if err != nil {
		return nil, err
	}
	pricing, err := s.pricing.PriceOrder(order)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: order, Pricing: pricing}, nil
}

// ProcessPayment 单笔支付：金额必须等于计价合计
func (s *OrderService) ProcessPayment(ctx context.Context, p Principal, input ProcessPaymentInput) (*PaymentResult, error) {
	result, err := s.processPayment(ctx, p, input)
	metrics.RecordSettlementOperation("process_payment", err == nil)
	return result, err
}

func (s *OrderService) processPayment(ctx context.Context, p Principal, input ProcessPaymentInput) (*PaymentResult, error) {
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return nil, ErrInvalidPaymentMethod
	}
	order, pricing, err := s.preparePayment(p, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateExact(pricing.Total, input.Amount); err != nil {
		return nil, err
	}
	if err := s.settle(ctx, p, order, pricing, method, nil); err != nil {
		return nil, err
	}
	return newPaymentResult(order, pricing.Total), nil
}

// ProcessPaymentWithCoupon 使用优惠券支付：金额必须等于优惠后应付
func (s *OrderService) ProcessPaymentWithCoupon(ctx context.Context, p Principal, input CouponPaymentInput) (*PaymentResult, error) {
	result, err := s.processPaymentWithCoupon(ctx, p, input)
	metrics.RecordSettlementOperation("process_payment_with_coupon", err == nil)
	return result, err
}

func (s *OrderService) processPaymentWithCoupon(ctx context.Context, p Principal, input CouponPaymentInput) (*PaymentResult, error) {
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return nil, ErrInvalidPaymentMethod
	}
	order, pricing, err := s.preparePayment(p, input.OrderID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.coupons.Evaluate(input.CouponCode, pricing.Total)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateExact(coupon.FinalAmount, input.Amount); err != nil {
		return nil, err
	}

	extra := map[string]interface{}{
		"coupon_code":     coupon.Coupon.Code,
		"discount_amount": models.NewMoney(coupon.Discount),
		"final_amount":    models.NewMoney(coupon.FinalAmount),
	}
	if err := s.settle(ctx, p, order, pricing, method, extra); err != nil {
		return nil, err
	}
	order.CouponCode = coupon.Coupon.Code
	order.DiscountAmount = models.MoneyPtr(coupon.Discount)
	order.FinalAmount = models.MoneyPtr(coupon.FinalAmount)

	result := newPaymentResult(order, coupon.FinalAmount)
	result.CouponCode = coupon.Coupon.Code
	result.Discount = &coupon.Discount
	result.FinalAmount = &coupon.FinalAmount
	return result, nil
}

// CalculateSplitAmounts 按人数均摊订单合计
func (s *OrderService) CalculateSplitAmounts(p Principal, orderID uint, ways int) (*SplitAmountsResult, error) {
	if ways < 2 || ways > s.maxSplitWays {
		return nil, ErrInvalidSplit
	}
	order, pricing, err := s.preparePayment(p, orderID)
	if err != nil {
		return nil, err
	}
	amounts, err := SplitAmounts(pricing.Total, ways)
	if err != nil {
		return nil, err
	}
	return &SplitAmountsResult{
		OrderID:  order.ID,
		Total:    pricing.Total,
		Currency: order.Currency,
		Amounts:  amounts,
	}, nil
}

// ProcessSplitPayment 拆分支付：各笔合计与计价合计误差不超过 0.01，流水按第一笔的支付方式记录
func (s *OrderService) ProcessSplitPayment(ctx context.Context, p Principal, input SplitPaymentInput) (*PaymentResult, error) {
	result, err := s.processSplitPayment(ctx, p, input)
	metrics.RecordSettlementOperation("process_split_payment", err == nil)
	return result, err
}

func (s *OrderService) processSplitPayment(ctx context.Context, p Principal, input SplitPaymentInput) (*PaymentResult, error) {
	if len(input.Payments) > s.maxSplitWays {
		return nil, ErrInvalidSplit
	}
	order, pricing, err := s.preparePayment(p, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateSplit(pricing.Total, input.Payments); err != nil {
		return nil, err
	}

	parts := make([]SplitPart, len(input.Payments))
	breakdown := make(models.SplitPayments, len(input.Payments))
	for i, part := range input.Payments {
		method := strings.TrimSpace(part.Method)
		parts[i] = SplitPart{Method: method, Amount: part.Amount}
		breakdown[i] = models.SplitPayment{Method: method, Amount: models.NewMoney(part.Amount)}
	}
	extra := map[string]interface{}{
		"split_payments": breakdown,
	}
	if err := s.settle(ctx, p, order, pricing, parts[0].Method, extra); err != nil {
		return nil, err
	}
	order.SplitPayments = breakdown

	result := newPaymentResult(order, pricing.Total)
	result.SplitPayments = parts
	return result, nil
}

func (s *OrderService) loadOwnedOrder(p Principal, orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := ensureOwnership(p, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) preparePayment(p Principal, orderID uint) (*models.Order, *OrderPricing, error) {
	order, err := s.loadOwnedOrder(p, orderID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validator.CheckPayable(order); err != nil {
		return nil, nil, err
	}
	pricing, err := s.pricing.PriceOrder(order)
	if err != nil {
		return nil, nil, err
	}
	return order, pricing, nil
}

// settle 在同一事务内抢占支付状态并写入结算流水，提交后触发副作用
func (s *OrderService) settle(ctx context.Context, p Principal, order *models.Order, pricing *OrderPricing, method string, extra map[string]interface{}) error {
	now := s.now()
	updates := map[string]interface{}{
		"subtotal":               models.NewMoney(pricing.Subtotal),
		"total":                  models.NewMoney(pricing.Total),
		"payment_method":         method,
		"paid_at":                now,
		"payment_link_is_active": false,
		"updated_by":             p.UserID,
		"updated_at":             now,
	}
	for k, v := range extra {
		updates[k] = v
	}

	var txn *models.CustomerTransaction
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		paid, err := s.orderRepo.WithTx(tx).MarkPaid(order.ID, updates)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if !paid {
			return ErrAlreadyPaid
		}
		applyPaid(order, pricing, method, now, p.UserID)
		txn, err = s.recorder.Record(tx, order, method, p.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			logger.Infow("order_payment_cas_lost", "order_id", order.ID)
		}
		return err
	}
	s.notifier.OrderPaid(ctx, order, txn)
	return nil
}

func applyPaid(order *models.Order, pricing *OrderPricing, method string, paidAt time.Time, actorID uint) {
	order.Subtotal = models.NewMoney(pricing.Subtotal)
	order.Total = models.NewMoney(pricing.Total)
	order.PaymentStatus = constants.PaymentStatusSuccess
	order.PaymentMethod = method
	order.PaidAt = &paidAt
	order.PaymentLink.IsActive = false
	order.UpdatedBy = actorID
	order.UpdatedAt = paidAt
}

func newPaymentResult(order *models.Order, amount decimal.Decimal) *PaymentResult {
	return &PaymentResult{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Method:        order.PaymentMethod,
		Amount:        amount,
		Currency:      order.Currency,
		PaidAt:        order.PaidAt,
		TransactionID: order.TransactionID,
	}
}
