package public

import (
	"strconv"

	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,max=200,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// CreateOrder 顾客下单
func (h *Handler) CreateOrder(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:          identity.UID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		handlershared.RespondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.Success(c, order)
}

// ListMyOrders 当前顾客的订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)
	orders, total, err := h.OrderService.ListOrdersByUser(c.Request.Context(), repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   identity.UID,
		Statuses: service.ParseStatusFilter(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetMyOrder 当前顾客的订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetOrderByUser(c.Request.Context(), uint(orderID), identity.UID)
	if err != nil {
		handlershared.RespondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}
