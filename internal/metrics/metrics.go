package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP 请求总数",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP 请求耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// 库存调整：path=batch|transaction，result=updated|skipped|variant_missing|failed
	stockAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "商品库存调整次数",
		},
		[]string{"path", "result"},
	)

	// 销售统计：op=accrue|reverse|reverse_skipped|reset
	salesAnalyticsUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_analytics_updates_total",
			Help: "销售统计累加与回滚次数",
		},
		[]string{"op"},
	)

	orderTxnConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_txn_conflicts_total",
			Help: "订单事务乐观锁冲突次数",
		},
		[]string{"operation", "outcome"},
	)
)

// GinMiddleware 采集 HTTP 指标
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 输出
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordStockAdjustment 记录库存调整结果
func RecordStockAdjustment(path, result string, n int) {
	if n <= 0 {
		return
	}
	stockAdjustmentsTotal.WithLabelValues(path, result).Add(float64(n))
}

// RecordSalesAnalytics 记录销售统计变更
func RecordSalesAnalytics(op string) {
	salesAnalyticsUpdatesTotal.WithLabelValues(op).Inc()
}

// RecordTxnConflict 记录事务冲突；outcome=retry|exhausted
func RecordTxnConflict(operation, outcome string) {
	orderTxnConflictsTotal.WithLabelValues(operation, outcome).Inc()
}
