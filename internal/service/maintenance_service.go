package service

import (
	"context"
	"errors"

	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

// MaintenanceService 开发环境维护操作
type MaintenanceService struct {
	db               *gorm.DB
	enabled          bool
	orderRepo        repository.OrderRepository
	orderService     *OrderService
	analyticsService *AnalyticsService
}

// NewMaintenanceService 创建维护服务
func NewMaintenanceService(db *gorm.DB, enabled bool, orderRepo repository.OrderRepository, orderService *OrderService, analyticsService *AnalyticsService) *MaintenanceService {
	return &MaintenanceService{
		db:               db,
		enabled:          enabled,
		orderRepo:        orderRepo,
		orderService:     orderService,
		analyticsService: analyticsService,
	}
}

// ResetReport 重置结果
type ResetReport struct {
	OrdersDeleted    int  `json:"orders_deleted"`
	OrdersFailed     int  `json:"orders_failed"`
	AnalyticsDeleted bool `json:"analytics_deleted"`
}

// ResetTestData 逐单删除全部订单（按状态回补库存或回滚统计），最后删除统计单例
func (s *MaintenanceService) ResetTestData(ctx context.Context) (*ResetReport, error) {
	if !s.enabled {
		return nil, ErrMaintenanceDisabled
	}
	log := logger.FromContext(ctx)
	ids, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).ListIDs()
	if err != nil {
		log.Errorw("maintenance_list_orders_failed", "error", err)
		return nil, ErrOrderFetchFailed
	}
	report := &ResetReport{}
	for _, id := range ids {
		if err := s.orderService.DeleteOrder(ctx, id); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				continue
			}
			report.OrdersFailed++
			log.Warnw("maintenance_order_delete_failed", "order_id", id, "error", err)
			continue
		}
		report.OrdersDeleted++
	}
	existed, err := s.analyticsService.Reset(ctx)
	if err != nil {
		return report, err
	}
	report.AnalyticsDeleted = existed
	log.Infow("maintenance_reset_done",
		"orders_deleted", report.OrdersDeleted,
		"orders_failed", report.OrdersFailed,
		"analytics_deleted", report.AnalyticsDeleted,
	)
	return report, nil
}
