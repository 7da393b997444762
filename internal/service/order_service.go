package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/metrics"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/queue"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultOrderMaxItems    = 50
	defaultOrderMaxQuantity = 20
)

// OrderService 订单服务
type OrderService struct {
	db               *gorm.DB
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	stockService     *StockService
	analyticsService *AnalyticsService
	queueClient      *queue.Client
	options          OrderOptions
	now              func() time.Time
}

// OrderOptions 订单配置
type OrderOptions struct {
	ShippingCost   models.Money
	TxnMaxAttempts int
	MaxItems       int
	// MaxQuantity 单个订单项的数量上限
	MaxQuantity int
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, stockService *StockService, analyticsService *AnalyticsService, queueClient *queue.Client, options OrderOptions) *OrderService {
	if options.MaxItems <= 0 {
		options.MaxItems = defaultOrderMaxItems
	}
	if options.MaxQuantity <= 0 {
		options.MaxQuantity = defaultOrderMaxQuantity
	}
	if options.TxnMaxAttempts <= 0 {
		options.TxnMaxAttempts = defaultTxnMaxAttempts
	}
	return &OrderService{
		db:               db,
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		stockService:     stockService,
		analyticsService: analyticsService,
		queueClient:      queueClient,
		options:          options,
		now:              time.Now,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          string
	Items           []CreateOrderItem
	ShippingAddress models.ShippingAddress
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Color     string
	Size      string
	Quantity  int
}

// CreateOrder 创建订单：冻结商品名称与单价，提交后触发库存扣减
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" || len(input.Items) == 0 || len(input.Items) > s.options.MaxItems {
		return nil, ErrOrderItemInvalid
	}
	productIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 || item.Quantity > s.options.MaxQuantity || strings.TrimSpace(item.Color) == "" {
			return nil, ErrOrderItemInvalid
		}
		productIDs = append(productIDs, item.ProductID)
	}

	log := logger.FromContext(ctx)
	products, err := s.productRepo.WithTx(s.db.WithContext(ctx)).ListByIDs(productIDs)
	if err != nil {
		log.Errorw("order_create_product_fetch_failed", "error", err)
		return nil, ErrProductFetchFailed
	}
	productMap := make(map[uint]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	now := s.now().UTC()
	order := &models.Order{
		OrderNo:         generateOrderNo(now),
		UserID:          userID,
		Status:          constants.OrderStatusPending,
		ShippingCost:    s.options.ShippingCost,
		OrderDate:       now,
		ShippingAddress: input.ShippingAddress,
		Items:           make([]models.OrderItem, 0, len(input.Items)),
	}
	subtotal := models.NewMoneyFromInt(0)
	for _, in := range input.Items {
		product, ok := productMap[in.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		color := strings.TrimSpace(in.Color)
		idx := product.Colors.Find(color)
		if idx < 0 {
			return nil, ErrColorVariantNotFound
		}
		size := strings.TrimSpace(in.Size)
		if size != "" && len(product.Sizes) > 0 && !containsString(product.Sizes, size) {
			return nil, ErrOrderItemInvalid
		}
		imageURL := product.ImageURL
		if images := product.Colors[idx].Images; len(images) > 0 && images[0].URL != "" {
			imageURL = images[0].URL
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:       product.ID,
			Name:            product.Name,
			Color:           color,
			Size:            size,
			Quantity:        in.Quantity,
			PriceAtPurchase: product.Price,
			ImageURL:        imageURL,
		})
		subtotal = subtotal.Plus(product.Price.Times(in.Quantity))
	}
	order.TotalAmount = subtotal.Plus(order.ShippingCost)

	if err := s.orderRepo.WithTx(s.db.WithContext(ctx)).Create(order); err != nil {
		log.Errorw("order_create_failed", "user_id", userID, "error", err)
		return nil, ErrOrderCreateFailed
	}
	log.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"items", len(order.Items),
		"total_amount", order.TotalAmount.String(),
	)
	s.triggerOrderCreated(ctx, order)
	return order, nil
}

// triggerOrderCreated 下单后的库存扣减：启用队列时投递任务，未启用时同步执行。
// 投递失败不再同步扣减：redis 可能已收下任务只是响应超时，两边都做会重复扣减。
func (s *OrderService) triggerOrderCreated(ctx context.Context, order *models.Order) {
	log := logger.FromContext(ctx).With("order_id", order.ID)
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderCreated(ctx, queue.OrderCreatedPayload{OrderID: order.ID}); err != nil {
			log.Errorw("order_created_enqueue_failed", "task_id", queue.OrderCreatedTaskID(order.ID), "error", err)
		}
		return
	}
	if s.stockService == nil {
		return
	}
	if _, err := s.stockService.DecrementForOrder(ctx, order); err != nil {
		log.Errorw("order_created_stock_decrement_failed", "error", err)
	}
}

// HandleOrderCreated 消费下单任务：重新读取订单并执行批量扣减。订单已被删除时跳过。
func (s *OrderService) HandleOrderCreated(ctx context.Context, orderID uint) (*StockBatchResult, error) {
	order, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		logger.FromContext(ctx).Warnw("order_created_task_order_missing", "order_id", orderID)
		return &StockBatchResult{}, nil
	}
	return s.stockService.DecrementForOrder(ctx, order)
}

// UpdateOrderStatus 更新订单状态。
// 流转为 delivered 时在同一事务内累加销售统计；事务内重新读取订单，
// 因此重复或并发的 delivered 请求只会累加一次。
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	target := normalizeOrderStatus(status)
	if target == "" {
		return nil, ErrOrderStatusInvalid
	}
	ctx = logger.WithContext(ctx, "order_id", orderID)
	log := logger.FromContext(ctx)

	var updated *models.Order
	var accrued bool
	var previous string
	err := runTransaction(ctx, s.db, "update_order_status", s.options.TxnMaxAttempts, func(tx *gorm.DB) error {
		updated, accrued, previous = nil, false, ""
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		previous = order.Status
		if order.Status == target {
			updated = order
			return nil
		}
		if !canTransitOrderStatus(order.Status, target) {
			return ErrOrderTransitInvalid
		}

		var snap *AccrualSnapshot
		if target == constants.OrderStatusDelivered {
			if snap, err = s.analyticsService.LoadForAccrual(tx); err != nil {
				return err
			}
		}

		if snap != nil {
			if err := s.analyticsService.AccrueInTx(tx, snap, order); err != nil {
				return err
			}
		}
		if err := repo.UpdateStatusIfVersion(order.ID, order.Version, target); err != nil {
			return err
		}
		order.Status = target
		order.Version++
		updated = order
		accrued = snap != nil
		return nil
	})
	if err != nil {
		if isOrderDomainError(err) {
			return nil, err
		}
		log.Errorw("order_status_update_failed", "target", target, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	if accrued {
		metrics.RecordSalesAnalytics("accrue")
	}
	if previous != target {
		log.Infow("order_status_updated", "from", previous, "to", target, "analytics_accrued", accrued)
	}
	return updated, nil
}

// DeleteOrder 删除订单。已送达订单回滚销售统计，其余状态回补库存，
// 与删除本身在同一事务中提交，任一步失败整体回滚。
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	ctx = logger.WithContext(ctx, "order_id", orderID)
	log := logger.FromContext(ctx)

	var plan *stockPlan
	var reversed, wasDelivered bool
	err := runTransaction(ctx, s.db, "delete_order", s.options.TxnMaxAttempts, func(tx *gorm.DB) error {
		plan, reversed, wasDelivered = nil, false, false
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		if order.Status == constants.OrderStatusDelivered {
			wasDelivered = true
			current, err := s.analyticsService.LoadForReversal(tx)
			if err != nil {
				return err
			}
			if reversed, err = s.analyticsService.ReverseInTx(ctx, tx, current, order); err != nil {
				return err
			}
		} else {
			if plan, err = s.stockService.planRestockInTx(ctx, tx, order.Items); err != nil {
				return err
			}
			if err := s.stockService.commitInTx(tx, plan); err != nil {
				return err
			}
		}
		return repo.DeleteIfVersion(order.ID, order.Version)
	})
	if err != nil {
		if isOrderDomainError(err) {
			return err
		}
		log.Errorw("order_delete_failed", "error", err)
		return ErrOrderDeleteFailed
	}

	switch {
	case reversed:
		metrics.RecordSalesAnalytics("reverse")
	case wasDelivered:
		metrics.RecordSalesAnalytics("reverse_skipped")
	default:
		s.stockService.afterCommit(ctx, plan)
	}
	log.Infow("order_deleted", "delivered", wasDelivered, "analytics_reversed", reversed)
	return nil
}

// ListOrdersForAdmin 后台订单列表
func (s *OrderService) ListOrdersForAdmin(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).ListAdmin(filter)
	if err != nil {
		logger.FromContext(ctx).Errorw("order_list_admin_failed", "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// CountOrders 订单计数
func (s *OrderService) CountOrders(ctx context.Context, filter repository.OrderListFilter) (int64, error) {
	total, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).Count(filter)
	if err != nil {
		logger.FromContext(ctx).Errorw("order_count_failed", "error", err)
		return 0, ErrOrderFetchFailed
	}
	return total, nil
}

// GetOrderForAdmin 后台订单详情
func (s *OrderService) GetOrderForAdmin(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).GetByID(orderID)
	if err != nil {
		logger.FromContext(ctx).Errorw("order_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if strings.TrimSpace(filter.UserID) == "" {
		return nil, 0, ErrOrderNotFound
	}
	orders, total, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).ListByUser(filter)
	if err != nil {
		logger.FromContext(ctx).Errorw("order_list_user_failed", "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderByUser 用户订单详情，只能访问自己的订单
func (s *OrderService) GetOrderByUser(ctx context.Context, orderID uint, userID string) (*models.Order, error) {
	order, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).GetByIDAndUser(orderID, userID)
	if err != nil {
		logger.FromContext(ctx).Errorw("order_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ParseStatusFilter 解析后台列表的状态过滤参数
func ParseStatusFilter(raw string) []string {
	return parseStatusFilter(raw)
}

func isOrderDomainError(err error) bool {
	for _, target := range []error{
		ErrOrderNotFound,
		ErrOrderTransitInvalid,
		ErrOrderStatusInvalid,
		ErrProductNotFound,
		ErrTransientConflict,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// generateOrderNo 订单号：日期前缀 + uuid 片段
func generateOrderNo(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("BQ%s%s", now.Format("20060102"), strings.ToUpper(id[:12]))
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
