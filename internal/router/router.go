package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/triaxx-pos/internal/cache"
	"github.com/triaxx-pos/internal/config"
	employeehandlers "github.com/triaxx-pos/internal/http/handlers/employee"
	publichandlers "github.com/triaxx-pos/internal/http/handlers/public"
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/metrics"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按员工/公开分组）
	employeeHandler := employeehandlers.New(c)
	publicHandler := publichandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "triaxx"
	}
	publicRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:public", redisPrefix),
		WindowSeconds: cfg.Security.PublicRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PublicRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.PrometheusMiddleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, metrics.Handler())
	}

	r.GET("/healthz", healthz)

	apiV1 := r.Group("/api/v1")
	{
		// 员工接口
		employee := apiV1.Group("/employee")
		employee.Use(EmployeeAuthMiddleware(cfg.JWT))
		{
			employee.POST("/orders", employeeHandler.CreateOrder)
			employee.GET("/orders", employeeHandler.ListOrders)
			employee.PUT("/orders/:id/serve", employeeHandler.ServeOrder)
			employee.PUT("/complete-order/:orderId", employeeHandler.CompleteOrder)
			employee.PUT("/cancel-order/:orderId", employeeHandler.CancelOrder)
			employee.GET("/order-details/:orderId", employeeHandler.GetOrderDetails)

			employee.POST("/process-payment", employeeHandler.ProcessPayment)
			employee.POST("/process-payment-with-coupon", employeeHandler.ProcessPaymentWithCoupon)
			employee.POST("/calculate-split-amounts", employeeHandler.CalculateSplitAmounts)
			employee.POST("/process-split-payment", employeeHandler.ProcessSplitPayment)
			employee.POST("/generate-payment-link", employeeHandler.GeneratePaymentLink)

			employee.POST("/transactions/record", employeeHandler.RecordTransaction)
			employee.GET("/transactions/merchant/:merchant_id", employeeHandler.ListMerchantTransactions)
			employee.GET("/transactions/:id", employeeHandler.GetTransaction)
			employee.PUT("/transactions/:id", employeeHandler.UpdateTransaction)
		}

		// 公开接口（按 IP 限流）
		public := apiV1.Group("/public")
		public.Use(RateLimitMiddleware(cache.Client(), publicRule, KeyByIP))
		{
			public.POST("/payment-link/:token/process", publicHandler.ProcessPaymentLink)
			public.GET("/payment-link/:token/details", publicHandler.GetPaymentLinkDetails)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Response{
			StatusCode: response.CodeNotFound,
			Msg:        "not found",
		})
	})

	return r
}

// healthz 数据库可用时返回 ok
func healthz(c *gin.Context) {
	status := "ok"
	if models.DB == nil {
		status = "degraded"
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
	}
	response.Success(c, gin.H{"status": status})
}
