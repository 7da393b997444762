package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/repository"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}
	orders, total, err := h.OrderService.ListOrdersForAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(filter.Page, filter.PageSize, total))
}

// AdminCountOrders 订单计数（仪表盘用）
func (h *Handler) AdminCountOrders(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}
	total, err := h.OrderService.CountOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"total": total})
}

// AdminGetOrder 订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(c.Request.Context(), orderID)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 更新订单状态，送达时同步累计销售统计
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// AdminDeleteOrder 删除订单，按状态回补库存或回滚销售统计
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	if err := h.OrderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		handlershared.RespondWithMappedError(c, err, orderDeleteErrorRules, response.CodeInternal, "error.order_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

func parseOrderFilter(c *gin.Context) (repository.OrderListFilter, bool) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   strings.TrimSpace(c.Query("user_id")),
		Statuses: service.ParseStatusFilter(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	var err error
	if filter.CreatedFrom, err = parseTimeNullable(c.Query("created_from")); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return filter, false
	}
	if filter.CreatedTo, err = parseTimeNullable(c.Query("created_to")); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return filter, false
	}
	return filter, true
}

// parseTimeNullable 支持 RFC3339 与 YYYY-MM-DD
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
