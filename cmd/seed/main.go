package main

import (
	"flag"
	"time"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/shopspring/decimal"
)

func main() {
	var restaurantID uint
	flag.UintVar(&restaurantID, "restaurant", 1, "餐厅ID")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 菜单
	items := []models.CatalogItem{
		{RestaurantID: restaurantID, Name: "Attieke poisson", Price: price("3500"), IsActive: true},
		{RestaurantID: restaurantID, Name: "Poulet braise", Price: price("4500"), IsActive: true},
		{RestaurantID: restaurantID, Name: "Alloco", Price: price("1500"), IsActive: true},
		{RestaurantID: restaurantID, Name: "Jus de bissap", Price: price("800"), IsActive: true},
	}
	for i := range items {
		if err := models.DB.Where("restaurant_id = ? AND name = ?", restaurantID, items[i].Name).
			FirstOrCreate(&items[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed catalog item %s: %v", items[i].Name, err)
		}
	}
	addon := models.CatalogAddon{RestaurantID: restaurantID, Name: "Piment", Price: price("200")}
	if err := models.DB.Where("restaurant_id = ? AND name = ?", restaurantID, addon.Name).FirstOrCreate(&addon).Error; err != nil {
		stdLog.Fatalf("Failed to seed addon: %v", err)
	}
	variant := models.CatalogVariant{RestaurantID: restaurantID, Name: "Grande portion", Price: price("1000")}
	if err := models.DB.Where("restaurant_id = ? AND name = ?", restaurantID, variant.Name).FirstOrCreate(&variant).Error; err != nil {
		stdLog.Fatalf("Failed to seed variant: %v", err)
	}

	// 一张已上菜待结账的示例订单
	now := time.Now()
	order := &models.Order{
		RestaurantID:  restaurantID,
		TableNo:       "T1",
		Status:        constants.OrderStatusServed,
		PaymentStatus: constants.PaymentStatusPending,
		Currency:      cfg.Order.Currency,
		Tax:           price("0"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if order.Currency == "" {
		order.Currency = constants.DefaultCurrency
	}
	orderItems := []models.OrderItem{
		{ItemID: items[0].ID, Quantity: 2, AddonID: &addon.ID, Status: constants.OrderStatusServed},
		{ItemID: items[3].ID, Quantity: 2, VariantID: &variant.ID, Status: constants.OrderStatusServed},
	}
	if err := repository.NewOrderRepository(models.DB).Create(order, orderItems); err != nil {
		stdLog.Fatalf("Failed to seed order: %v", err)
	}

	stdLog.Printf("Seed completed: restaurant=%d items=%d order=%d", restaurantID, len(items), order.ID)
}

func price(raw string) models.Money {
	return models.NewMoney(decimal.RequireFromString(raw))
}
