package service

import (
	"context"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/metrics"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

// AnalyticsService 销售统计单例的读取、累加、回滚与重置
// 累加/回滚只在调用方的事务中发生，服务本身不缓存聚合。
type AnalyticsService struct {
	db            *gorm.DB
	analyticsRepo repository.SalesAnalyticsRepository
	userRepo      repository.UserRepository
	location      *time.Location
	topLimit      int
	now           func() time.Time
}

// AnalyticsOptions 统计配置
type AnalyticsOptions struct {
	Timezone        string
	TopSellersLimit int
}

// NewAnalyticsService 创建销售统计服务
func NewAnalyticsService(db *gorm.DB, analyticsRepo repository.SalesAnalyticsRepository, userRepo repository.UserRepository, opts AnalyticsOptions) *AnalyticsService {
	loc := time.UTC
	if opts.Timezone != "" {
		if loaded, err := time.LoadLocation(opts.Timezone); err == nil {
			loc = loaded
		} else {
			logger.Warnw("analytics_timezone_invalid", "timezone", opts.Timezone, "error", err)
		}
	}
	limit := opts.TopSellersLimit
	if limit <= 0 {
		limit = constants.DefaultTopSellersLimit
	}
	return &AnalyticsService{
		db:            db,
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		location:      loc,
		topLimit:      limit,
		now:           time.Now,
	}
}

// Get 读取统计快照，热销榜按销量降序；尚未产生统计时返回 nil
func (s *AnalyticsService) Get(ctx context.Context) (*models.SalesAnalytics, error) {
	summary, err := s.analyticsRepo.WithTx(s.db.WithContext(ctx)).Get()
	if err != nil {
		logger.FromContext(ctx).Errorw("sales_analytics_fetch_failed", "error", err)
		return nil, ErrAnalyticsFetchFailed
	}
	if summary == nil {
		return nil, nil
	}
	summary.TopSellingProducts = rankTopSellers(summary.TopSellingProducts, 0)
	return summary, nil
}

// Reset 删除统计单例，订单与库存不受影响；之后由新的送达订单重新累计
func (s *AnalyticsService) Reset(ctx context.Context) (bool, error) {
	existed, err := s.analyticsRepo.WithTx(s.db.WithContext(ctx)).Delete()
	if err != nil {
		logger.FromContext(ctx).Errorw("sales_analytics_reset_failed", "error", err)
		return false, ErrAnalyticsResetFailed
	}
	metrics.RecordSalesAnalytics("reset")
	logger.FromContext(ctx).Infow("sales_analytics_reset", "existed", existed)
	return existed, nil
}

// AccrualSnapshot 累加所需的全部读取结果
type AccrualSnapshot struct {
	current   *models.SalesAnalytics
	customers int64
}

// LoadForAccrual 读阶段：统计单例与用户总数
func (s *AnalyticsService) LoadForAccrual(tx *gorm.DB) (*AccrualSnapshot, error) {
	current, err := s.analyticsRepo.WithTx(tx).Get()
	if err != nil {
		return nil, err
	}
	customers, err := s.userRepo.WithTx(tx).Count()
	if err != nil {
		return nil, err
	}
	return &AccrualSnapshot{current: current, customers: customers}, nil
}

// AccrueInTx 写阶段：把订单累加进统计
func (s *AnalyticsService) AccrueInTx(tx *gorm.DB, snap *AccrualSnapshot, order *models.Order) error {
	next := accrueSalesAnalytics(snap.current, order, snap.customers, s.location, s.topLimit, s.now())
	return s.save(tx, snap.current, next)
}

// LoadForReversal 读阶段：统计单例
func (s *AnalyticsService) LoadForReversal(tx *gorm.DB) (*models.SalesAnalytics, error) {
	return s.analyticsRepo.WithTx(tx).Get()
}

// ReverseInTx 写阶段：从统计中回滚订单。统计不存在时记录告警后跳过。
func (s *AnalyticsService) ReverseInTx(ctx context.Context, tx *gorm.DB, current *models.SalesAnalytics, order *models.Order) (bool, error) {
	if current == nil {
		logger.FromContext(ctx).Warnw("sales_analytics_reverse_skipped_missing_summary", "order_id", order.ID)
		return false, nil
	}
	next := reverseSalesAnalytics(current, order, s.location, s.now())
	return true, s.save(tx, current, next)
}

func (s *AnalyticsService) save(tx *gorm.DB, current, next *models.SalesAnalytics) error {
	repo := s.analyticsRepo.WithTx(tx)
	if current == nil {
		return repo.Create(next)
	}
	return repo.UpdateIfVersion(next, current.Version)
}
