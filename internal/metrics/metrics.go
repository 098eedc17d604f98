package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triaxx_pos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triaxx_pos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	settlementOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triaxx_pos_settlement_operations_total",
			Help: "Total number of order settlement operations",
		},
		[]string{"operation", "status"},
	)

	settledAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triaxx_pos_settled_amount_total",
			Help: "Sum of settled order amounts by currency and payment method",
		},
		[]string{"currency", "method"},
	)
)

// PrometheusMiddleware 收集 HTTP 请求指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordSettlementOperation 记录结算操作结果
func RecordSettlementOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	settlementOperations.WithLabelValues(operation, status).Inc()
}

// ObserveSettledAmount 累计已收款金额
func ObserveSettledAmount(currency, method string, amount float64) {
	if amount <= 0 {
		return
	}
	settledAmount.WithLabelValues(currency, method).Add(amount)
}
