package provider

import (
	"time"

	"github.com/triaxx-pos/internal/cache"
	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/events"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/queue"
	"github.com/triaxx-pos/internal/repository"
	"github.com/triaxx-pos/internal/service"
)

// catalogCacheTTL 菜品价格缓存时间
const catalogCacheTTL = 10 * time.Minute

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   events.Publisher

	// Repositories
	OrderRepo       repository.OrderRepository
	CatalogRepo     repository.CatalogRepository
	TransactionRepo repository.TransactionRepository

	// Services
	SettlementRecorder *service.SettlementRecorder
	SettlementNotifier *service.SettlementNotifier
	OrderService       *service.OrderService
	PaymentLinkService *service.PaymentLinkService
	TransactionService *service.TransactionService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	// 初始化结算事件推送，连接失败时降级为不推送
	publisher, err := events.NewPublisher(&cfg.Events)
	if err != nil {
		logger.Warnw("provider_init_event_publisher_failed", "error", err)
		publisher = events.NoopPublisher{}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   publisher,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CatalogRepo = repository.NewCachedCatalogRepository(repository.NewCatalogRepository(db), catalogCacheTTL)
	c.TransactionRepo = repository.NewTransactionRepository(db)
}

func (c *Container) initServices() {
	coupons, err := service.CouponTableFromConfig(c.Config.Order.Coupons)
	if err != nil {
		logger.Errorw("provider_load_coupons_failed", "error", err)
		panic(err)
	}

	autoSettleDelay := time.Duration(c.Config.Settlement.AutoSettleAfterMinutes) * time.Minute
	c.SettlementRecorder = service.NewSettlementRecorder(c.OrderRepo, c.TransactionRepo)
	c.SettlementNotifier = service.NewSettlementNotifier(c.Publisher, c.QueueClient, autoSettleDelay)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CatalogRepo,
		service.NewCouponEvaluator(coupons),
		c.SettlementRecorder,
		c.SettlementNotifier,
		c.Config.Order.Currency,
		c.Config.Order.MaxSplitWays,
	)
	c.PaymentLinkService = service.NewPaymentLinkService(c.OrderRepo, c.CatalogRepo, c.SettlementRecorder, c.SettlementNotifier, c.Config.PaymentLink)
	c.TransactionService = service.NewTransactionService(c.TransactionRepo, c.OrderRepo, c.Config.Order.Currency)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
}
