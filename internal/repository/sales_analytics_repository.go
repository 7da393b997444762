package repository

import (
	"errors"

	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

// SalesAnalyticsRepository 销售统计单例的读写接口
// 只在显式事务中使用，进程内不缓存该聚合。
type SalesAnalyticsRepository interface {
	Get() (*models.SalesAnalytics, error)
	Create(summary *models.SalesAnalytics) error
	UpdateIfVersion(summary *models.SalesAnalytics, version uint64) error
	Delete() (bool, error)
	WithTx(tx *gorm.DB) SalesAnalyticsRepository
}

// GormSalesAnalyticsRepository GORM 实现
type GormSalesAnalyticsRepository struct {
	db *gorm.DB
}

// NewSalesAnalyticsRepository 创建销售统计仓库
func NewSalesAnalyticsRepository(db *gorm.DB) *GormSalesAnalyticsRepository {
	return &GormSalesAnalyticsRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSalesAnalyticsRepository) WithTx(tx *gorm.DB) SalesAnalyticsRepository {
	if tx == nil {
		return r
	}
	return &GormSalesAnalyticsRepository{db: tx}
}

// Get 读取单例，不存在时返回 nil, nil
func (r *GormSalesAnalyticsRepository) Get() (*models.SalesAnalytics, error) {
	var summary models.SalesAnalytics
	if err := r.db.Where("id = ?", models.SalesAnalyticsSummaryID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// Create 首次创建单例；并发创建时主键冲突返回 ErrWriteConflict
func (r *GormSalesAnalyticsRepository) Create(summary *models.SalesAnalytics) error {
	summary.ID = models.SalesAnalyticsSummaryID
	summary.Version = 1
	return translateConflict(r.db.Create(summary).Error)
}

// UpdateIfVersion 版本号匹配时整体覆盖单例
func (r *GormSalesAnalyticsRepository) UpdateIfVersion(summary *models.SalesAnalytics, version uint64) error {
	result := r.db.Model(&models.SalesAnalytics{}).
		Where("id = ? AND version = ?", models.SalesAnalyticsSummaryID, version).
		Updates(map[string]interface{}{
			"total_revenue":          summary.TotalRevenue,
			"revenue_amine":          summary.RevenueAmine,
			"revenue_maryem":         summary.RevenueMaryem,
			"total_orders_delivered": summary.TotalOrdersDelivered,
			"total_items_sold":       summary.TotalItemsSold,
			"total_customers":        summary.TotalCustomers,
			"monthly_sales":          summary.MonthlySales,
			"top_selling_products":   summary.TopSellingProducts,
			"last_updated":           summary.LastUpdated,
			"version":                gorm.Expr("version + 1"),
		})
	if err := conflictOnZeroRows(result); err != nil {
		return err
	}
	summary.Version = version + 1
	return nil
}

// Delete 删除单例，返回是否存在过
func (r *GormSalesAnalyticsRepository) Delete() (bool, error) {
	result := r.db.Where("id = ?", models.SalesAnalyticsSummaryID).Delete(&models.SalesAnalytics{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
