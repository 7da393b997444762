package admin

import (
	"errors"

	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminGetAnalytics 读取销售统计；尚未产生统计时 data 为 null
func (h *Handler) AdminGetAnalytics(c *gin.Context) {
	summary, err := h.AnalyticsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.analytics_fetch_failed", err)
		return
	}
	response.Success(c, summary)
}

// AdminResetAnalytics 删除统计单例，下次送达时从零重建
func (h *Handler) AdminResetAnalytics(c *gin.Context) {
	deleted, err := h.AnalyticsService.Reset(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.analytics_reset_failed", err)
		return
	}
	requestLog(c).Infow("admin_analytics_reset", "deleted", deleted)
	response.Success(c, gin.H{"deleted": deleted})
}

// AdminResetTestData 清空全部订单与统计（仅开发环境开启）
func (h *Handler) AdminResetTestData(c *gin.Context) {
	report, err := h.MaintenanceService.ResetTestData(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrMaintenanceDisabled) {
			respondError(c, response.CodeForbidden, "error.maintenance_disabled", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_test_data_reset",
		"orders_deleted", report.OrdersDeleted,
		"orders_failed", report.OrdersFailed,
		"analytics_deleted", report.AnalyticsDeleted,
	)
	response.Success(c, report)
}
