package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/events"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testRestaurantID = 7

var (
	restaurantPrincipal = Principal{UserID: testRestaurantID, Role: constants.RoleRestaurant}
	otherRestaurant     = Principal{UserID: 8, Role: constants.RoleRestaurant}
	employeePrincipal   = Principal{UserID: 99, Role: constants.RoleEmployee}
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

// seedCatalog 菜品 1=10.00、2=15.50、3=4.00(停售)，加料 1=1.25，规格 1=2.00
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []interface{}{
		&models.CatalogItem{ID: 1, RestaurantID: testRestaurantID, Name: "Attieke", Price: money("10.00"), IsActive: true},
		&models.CatalogItem{ID: 2, RestaurantID: testRestaurantID, Name: "Poulet braise", Price: money("15.50"), IsActive: true},
		&models.CatalogItem{ID: 3, RestaurantID: testRestaurantID, Name: "Bissap", Price: money("4.00"), IsActive: false},
		&models.CatalogAddon{ID: 1, RestaurantID: testRestaurantID, Name: "Piment", Price: money("1.25")},
		&models.CatalogVariant{ID: 1, RestaurantID: testRestaurantID, Name: "Grand", Price: money("2.00")},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed catalog failed: %v", err)
		}
	}
	if err := db.Model(&models.CatalogItem{}).Where("id = ?", 3).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate item failed: %v", err)
	}
}

// seedOrder 创建订单：菜品 1、2 各一份，税费 2.00
func seedOrder(t *testing.T, db *gorm.DB, status string, customerID *uint) *models.Order {
	t.Helper()
	order := &models.Order{
		RestaurantID:  testRestaurantID,
		CustomerID:    customerID,
		Status:        status,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      constants.DefaultCurrency,
		Tax:           money("2.00"),
	}
	items := []models.OrderItem{
		{ItemID: 1, Quantity: 1, Status: status},
		{ItemID: 2, Quantity: 1, Status: status},
	}
	if err := repository.NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) *models.Order {
	t.Helper()
	order, err := repository.NewOrderRepository(db).GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order
}

func countTransactions(t *testing.T, db *gorm.DB, orderID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.CustomerTransaction{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	return count
}

func money(raw string) models.Money {
	return models.NewMoney(decimal.RequireFromString(raw))
}

func dec(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func uintPtr(v uint) *uint {
	return &v
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, 0, len(p.events))
	for _, e := range p.events {
		result = append(result, e.Type)
	}
	return result
}

type testServices struct {
	orders       *OrderService
	links        *PaymentLinkService
	transactions *TransactionService
	recorder     *SettlementRecorder
	publisher    *recordingPublisher
}

func newTestServices(db *gorm.DB) *testServices {
	orderRepo := repository.NewOrderRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	publisher := &recordingPublisher{}
	notifier := NewSettlementNotifier(publisher, nil, 0)
	recorder := NewSettlementRecorder(orderRepo, txnRepo)
	coupons := NewCouponEvaluator(NewCouponTable(
		Coupon{Code: "DISCOUNT10", Type: constants.CouponTypePercentage, Value: dec("10"), MinOrder: decimal.Zero},
		Coupon{Code: "DISCOUNT20", Type: constants.CouponTypePercentage, Value: dec("20"), MinOrder: dec("100")},
		Coupon{Code: "FIXED5", Type: constants.CouponTypeFixed, Value: dec("5"), MinOrder: decimal.Zero},
	))
	return &testServices{
		orders: NewOrderService(orderRepo, catalogRepo, coupons, recorder, notifier, constants.DefaultCurrency, 50),
		links: NewPaymentLinkService(orderRepo, catalogRepo, recorder, notifier, config.PaymentLinkConfig{
			DefaultExpiryHours: 24,
			MaxExpiryHours:     168,
			AllowedMethods:     []string{constants.PaymentMethodCard, constants.PaymentMethodMobileMoney},
			PublicPath:         "/api/v1/public/payment-link/",
		}),
		transactions: NewTransactionService(txnRepo, orderRepo, constants.DefaultCurrency),
		recorder:     recorder,
		publisher:    publisher,
	}
}
