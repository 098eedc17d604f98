package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/shopspring/decimal"
)

func TestProcessPaymentScenario(t *testing.T) {
	db := setupServiceTestDB(t, "payment_scenario")
	seedCatalog(t, db)
	svc := newTestServices(db)
	paidAt := time.Date(2026, 5, 4, 20, 30, 0, 0, time.UTC)
	svc.orders.now = fixedClock(paidAt)
	ctx := context.Background()
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))

	_, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, ProcessPaymentInput{OrderID: order.ID, Amount: dec("27.49"), Method: "Cash"})
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("want ErrAmountMismatch got %v", err)
	}
	if stored := reloadOrder(t, db, order.ID); stored.IsPaid() {
		t.Fatalf("mismatched payment mutated order")
	}

	result, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, ProcessPaymentInput{OrderID: order.ID, Amount: dec("27.50"), Method: "Card"})
	if err != nil {
		t.Fatalf("process payment failed: %v", err)
	}
	if result.PaymentStatus != constants.PaymentStatusSuccess || !result.Amount.Equal(dec("27.50")) {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.TransactionID == nil {
		t.Fatalf("expected transaction id on result")
	}

	stored := reloadOrder(t, db, order.ID)
	if !stored.IsPaid() || stored.PaymentMethod != "Card" || stored.PaidAt == nil || !stored.PaidAt.Equal(paidAt) {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
	if !stored.Subtotal.Equal(dec("25.50")) || !stored.Total.Equal(dec("27.50")) {
		t.Fatalf("stored totals want 25.50/27.50 got %s/%s", stored.Subtotal, stored.Total)
	}

	txn, err := repository.NewTransactionRepository(db).GetByID(*stored.TransactionID)
	if err != nil || txn == nil {
		t.Fatalf("load transaction failed: %v", err)
	}
	if txn.PaymentMethodUsed != constants.TransactionMethodBankCard || !txn.TransactionAmount.Equal(dec("27.50")) {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
	if got := svc.publisher.types(); len(got) != 1 || got[0] != constants.EventOrderPaid {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestProcessPaymentSecondAttemptAlreadyPaid(t *testing.T) {
	db := setupServiceTestDB(t, "payment_twice")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))

	input := ProcessPaymentInput{OrderID: order.ID, Amount: dec("27.50"), Method: "Cash"}
	if _, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, input); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if _, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, input); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("want ErrAlreadyPaid got %v", err)
	}
	if count := countTransactions(t, db, order.ID); count != 1 {
		t.Fatalf("want 1 transaction got %d", count)
	}
}

func TestSettleLosesCompareAndSet(t *testing.T) {
	db := setupServiceTestDB(t, "payment_cas")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))

	// 两个请求都通过了前置校验，其中一个先写入
	stale := reloadOrder(t, db, order.ID)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_status", constants.PaymentStatusSuccess).Error; err != nil {
		t.Fatalf("simulate concurrent payment failed: %v", err)
	}
	pricing, err := svc.orders.pricing.PriceOrder(stale)
	if err != nil {
		t.Fatalf("price order failed: %v", err)
	}
	if err := svc.orders.settle(context.Background(), restaurantPrincipal, stale, pricing, "Cash", nil); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("want ErrAlreadyPaid got %v", err)
	}
	if count := countTransactions(t, db, order.ID); count != 0 {
		t.Fatalf("loser must not record a transaction, got %d", count)
	}
}

func TestProcessPaymentPreconditions(t *testing.T) {
	db := setupServiceTestDB(t, "payment_preconditions")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()

	pending := seedOrder(t, db, constants.OrderStatusPending, nil)
	if _, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, ProcessPaymentInput{OrderID: pending.ID, Amount: dec("27.50"), Method: "Cash"}); !errors.Is(err, ErrInvalidOrderState) {
		t.Fatalf("want ErrInvalidOrderState got %v", err)
	}
	served := seedOrder(t, db, constants.OrderStatusServed, nil)
	if _, err := svc.orders.ProcessPayment(ctx, otherRestaurant, ProcessPaymentInput{OrderID: served.ID, Amount: dec("27.50"), Method: "Cash"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden got %v", err)
	}
	if _, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, ProcessPaymentInput{OrderID: served.ID, Amount: dec("27.50"), Method: " "}); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("want ErrInvalidPaymentMethod got %v", err)
	}
	if _, err := svc.orders.ProcessPayment(ctx, restaurantPrincipal, ProcessPaymentInput{OrderID: 9999, Amount: dec("27.50"), Method: "Cash"}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}

	// 无顾客的订单支付成功但不产生流水
	result, err := svc.orders.ProcessPayment(ctx, employeePrincipal, ProcessPaymentInput{OrderID: served.ID, Amount: dec("27.50"), Method: "Cash"})
	if err != nil {
		t.Fatalf("payment without customer failed: %v", err)
	}
	if result.TransactionID != nil || countTransactions(t, db, served.ID) != 0 {
		t.Fatalf("order without customer must not record a transaction")
	}
}

func TestProcessPaymentWithCoupon(t *testing.T) {
	db := setupServiceTestDB(t, "payment_coupon")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()
	order := seedOrder(t, db, constants.OrderStatusCompleted, uintPtr(42))

	input := CouponPaymentInput{OrderID: order.ID, Amount: dec("27.50"), Method: "Mobile_Money", CouponCode: "fixed5"}
	if _, err := svc.orders.ProcessPaymentWithCoupon(ctx, restaurantPrincipal, input); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("paying the undiscounted total should fail, got %v", err)
	}
	input.CouponCode = "DISCOUNT20"
	input.Amount = dec("22.00")
	if _, err := svc.orders.ProcessPaymentWithCoupon(ctx, restaurantPrincipal, input); !errors.Is(err, ErrMinimumOrderNotMet) {
		t.Fatalf("want ErrMinimumOrderNotMet got %v", err)
	}
	input.CouponCode = "fixed5"
	input.Amount = dec("22.50")
	result, err := svc.orders.ProcessPaymentWithCoupon(ctx, restaurantPrincipal, input)
	if err != nil {
		t.Fatalf("coupon payment failed: %v", err)
	}
	if result.CouponCode != "FIXED5" || !result.Discount.Equal(dec("5")) || !result.FinalAmount.Equal(dec("22.50")) {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored := reloadOrder(t, db, order.ID)
	if stored.CouponCode != "FIXED5" || stored.DiscountAmount == nil || stored.FinalAmount == nil {
		t.Fatalf("coupon fields not stored: %+v", stored)
	}
	final := stored.Subtotal.Add(stored.Tax.Decimal).Sub(stored.DiscountAmount.Decimal)
	if !stored.FinalAmount.Equal(final) {
		t.Fatalf("final %s must equal subtotal + tax - discount %s", stored.FinalAmount, final)
	}
	if !stored.Total.Equal(dec("27.50")) {
		t.Fatalf("total must stay subtotal + tax, got %s", stored.Total)
	}
}

func TestProcessPaymentWithFractionalPercentageCoupon(t *testing.T) {
	db := setupServiceTestDB(t, "payment_coupon_fraction")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("tax", money("2.75")).Error; err != nil {
		t.Fatalf("set tax failed: %v", err)
	}

	input := CouponPaymentInput{OrderID: order.ID, Amount: dec("25.425"), Method: "Cash", CouponCode: "DISCOUNT10"}
	if _, err := svc.orders.ProcessPaymentWithCoupon(ctx, restaurantPrincipal, input); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("unrounded amount should fail, got %v", err)
	}
	input.Amount = dec("25.42")
	result, err := svc.orders.ProcessPaymentWithCoupon(ctx, restaurantPrincipal, input)
	if err != nil {
		t.Fatalf("coupon payment failed: %v", err)
	}
	if !result.Discount.Equal(dec("2.83")) || !result.FinalAmount.Equal(dec("25.42")) {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored := reloadOrder(t, db, order.ID)
	if !stored.Total.Equal(dec("28.25")) || !stored.DiscountAmount.Equal(dec("2.83")) || !stored.FinalAmount.Equal(dec("25.42")) {
		t.Fatalf("unexpected stored amounts: total=%s discount=%s final=%s", stored.Total, stored.DiscountAmount, stored.FinalAmount)
	}
	final := stored.Subtotal.Add(stored.Tax.Decimal).Sub(stored.DiscountAmount.Decimal)
	if !stored.FinalAmount.Equal(final) {
		t.Fatalf("final %s must equal subtotal + tax - discount %s", stored.FinalAmount, final)
	}
}

func TestCalculateSplitAmounts(t *testing.T) {
	db := setupServiceTestDB(t, "payment_split_calc")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, nil)

	result, err := svc.orders.CalculateSplitAmounts(restaurantPrincipal, order.ID, 3)
	if err != nil {
		t.Fatalf("calculate split failed: %v", err)
	}
	want := []string{"9.17", "9.17", "9.16"}
	for i, w := range want {
		if !result.Amounts[i].Equal(dec(w)) {
			t.Fatalf("part %d want %s got %s", i, w, result.Amounts[i])
		}
	}
	if _, err := svc.orders.CalculateSplitAmounts(restaurantPrincipal, order.ID, 1); !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("want ErrInvalidSplit got %v", err)
	}
	if _, err := svc.orders.CalculateSplitAmounts(restaurantPrincipal, order.ID, 51); !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("want ErrInvalidSplit got %v", err)
	}
}

func TestProcessSplitPayment(t *testing.T) {
	db := setupServiceTestDB(t, "payment_split")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))

	bad := SplitPaymentInput{OrderID: order.ID, Payments: []SplitPart{
		{Method: "Cash", Amount: dec("10")},
		{Method: "Card", Amount: dec("17.48")},
	}}
	if _, err := svc.orders.ProcessSplitPayment(ctx, restaurantPrincipal, bad); !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("want ErrAmountMismatch got %v", err)
	}

	good := SplitPaymentInput{OrderID: order.ID, Payments: []SplitPart{
		{Method: "Mobile_Money", Amount: dec("13.75")},
		{Method: "Cash", Amount: dec("13.74")},
	}}
	result, err := svc.orders.ProcessSplitPayment(ctx, restaurantPrincipal, good)
	if err != nil {
		t.Fatalf("split payment failed: %v", err)
	}
	if result.Method != "Mobile_Money" || len(result.SplitPayments) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored := reloadOrder(t, db, order.ID)
	if len(stored.SplitPayments) != 2 || !stored.SplitPayments[1].Amount.Equal(dec("13.74")) {
		t.Fatalf("split breakdown not stored: %+v", stored.SplitPayments)
	}
	txn, err := repository.NewTransactionRepository(db).GetByID(*stored.TransactionID)
	if err != nil || txn == nil {
		t.Fatalf("load transaction failed: %v", err)
	}
	if txn.PaymentMethodUsed != constants.TransactionMethodMobileMoney {
		t.Fatalf("recorded method want first part's method, got %s", txn.PaymentMethodUsed)
	}
}

func TestCreateOrder(t *testing.T) {
	db := setupServiceTestDB(t, "order_create")
	seedCatalog(t, db)
	svc := newTestServices(db)
	ctx := context.Background()

	order, err := svc.orders.CreateOrder(ctx, restaurantPrincipal, CreateOrderInput{
		RestaurantID: 1000,
		TableNo:      " T4 ",
		Tax:          dec("2"),
		Items: []CreateOrderItem{
			{ItemID: 1, Quantity: 2, AddonID: uintPtr(1)},
			{ItemID: 2, Quantity: 1, VariantID: uintPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.RestaurantID != testRestaurantID || order.TableNo != "T4" {
		t.Fatalf("restaurant principal must own the order: %+v", order)
	}
	// (10 + 1.25) * 2 + (15.50 + 2) + 2
	if !order.Subtotal.Equal(dec("40")) || !order.Total.Equal(dec("42")) {
		t.Fatalf("subtotal/total want 40/42 got %s/%s", order.Subtotal, order.Total)
	}
	stored := reloadOrder(t, db, order.ID)
	if stored.Status != constants.OrderStatusPending || len(stored.Items) != 2 || stored.Items[0].Status != constants.OrderStatusPending {
		t.Fatalf("unexpected stored order: %+v", stored)
	}

	invalid := []CreateOrderInput{
		{Tax: decimal.Zero},
		{Tax: decimal.Zero, Items: []CreateOrderItem{{ItemID: 1, Quantity: 0}}},
		{Tax: decimal.Zero, Items: []CreateOrderItem{{ItemID: 3, Quantity: 1}}},
		{Tax: decimal.Zero, Items: []CreateOrderItem{{ItemID: 1, Quantity: 1, AddonID: uintPtr(77)}}},
	}
	for i, in := range invalid {
		_, err := svc.orders.CreateOrder(ctx, restaurantPrincipal, in)
		if !errors.Is(err, ErrInvalidOrderInput) && !errors.Is(err, ErrInvalidOrderItem) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if _, err := svc.orders.CreateOrder(ctx, employeePrincipal, CreateOrderInput{Items: []CreateOrderItem{{ItemID: 1, Quantity: 1}}}); !errors.Is(err, ErrInvalidOrderInput) {
		t.Fatalf("employee without restaurant id: want ErrInvalidOrderInput got %v", err)
	}
}

func TestListOrdersScopedToRestaurant(t *testing.T) {
	db := setupServiceTestDB(t, "order_list")
	seedCatalog(t, db)
	svc := newTestServices(db)
	seedOrder(t, db, constants.OrderStatusServed, nil)
	seedOrder(t, db, constants.OrderStatusPending, nil)

	orders, total, err := svc.orders.ListOrders(otherRestaurant, repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil || total != 0 || len(orders) != 0 {
		t.Fatalf("other restaurant must see nothing: %d %v", total, err)
	}
	orders, total, err = svc.orders.ListOrders(employeePrincipal, repository.OrderListFilter{Status: constants.OrderStatusServed})
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("expected one served order, got %d %v", total, err)
	}
}

func TestGetOrderDetails(t *testing.T) {
	db := setupServiceTestDB(t, "order_details")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, nil)

	details, err := svc.orders.GetOrderDetails(restaurantPrincipal, order.ID)
	if err != nil {
		t.Fatalf("get details failed: %v", err)
	}
	if details.Order.ID != order.ID || !details.Pricing.Total.Equal(dec("27.50")) || len(details.Pricing.Lines) != 2 {
		t.Fatalf("unexpected details: %+v", details.Pricing)
	}
}
