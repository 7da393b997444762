package repository

import (
	"errors"
	"time"

	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID string) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListIDs() ([]uint, error)
	Count(filter OrderListFilter) (int64, error)
	UpdateStatusIfVersion(id uint, version uint64, status string) error
	DeleteIfVersion(id uint, version uint64) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order) error {
	if order.Version == 0 {
		order.Version = 1
	}
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items", orderItemsOrder).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户自己的订单
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items", orderItemsOrder).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser 用户订单列表，按下单时间倒序
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == "" {
		return []models.Order{}, 0, nil
	}
	return r.list(filter)
}

// ListAdmin 管理端订单列表，按下单时间倒序
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(filter)
}

func (r *GormOrderRepository) list(filter OrderListFilter) ([]models.Order, int64, error) {
	query := applyOrderFilter(r.db.Model(&models.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items", orderItemsOrder).
		Order("order_date DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListIDs 全部订单 ID（维护任务逐单处理用）
func (r *GormOrderRepository) ListIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Order{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Count 统计订单数量
func (r *GormOrderRepository) Count(filter OrderListFilter) (int64, error) {
	var total int64
	if err := applyOrderFilter(r.db.Model(&models.Order{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStatusIfVersion 版本号匹配时更新状态
func (r *GormOrderRepository) UpdateStatusIfVersion(id uint, version uint64, status string) error {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	return conflictOnZeroRows(result)
}

// DeleteIfVersion 版本号匹配时删除订单及其订单项
func (r *GormOrderRepository) DeleteIfVersion(id uint, version uint64) error {
	result := r.db.Where("id = ? AND version = ?", id, version).Delete(&models.Order{})
	if err := conflictOnZeroRows(result); err != nil {
		return err
	}
	return r.db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error
}

func applyOrderFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("order_date >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("order_date <= ?", *filter.CreatedTo)
	}
	return query
}

func orderItemsOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
