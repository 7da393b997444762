package repository

import (
	"errors"
	"sort"
	"strings"

	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListColorNames() ([]string, error)
	Create(product *models.Product) error
	UpdateColors(id uint, colors models.ColorVariants) error
	UpdateColorsIfVersion(id uint, version uint64, colors models.ColorVariants) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品目录列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	dialect := dbDialectName(r.db)
	query := r.db.Model(&models.Product{})

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if color := strings.TrimSpace(filter.Color); color != "" {
		query = query.Where(jsonArrayFieldMatchCondition(dialect, "products.colors", "name"), color)
	}
	if size := strings.TrimSpace(filter.Size); size != "" {
		query = query.Where(jsonArrayContainsCondition(dialect, "products.sizes"), size)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice.Decimal)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice.Decimal)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := likeCondition(dialect, "name", "slug", "description")
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("is_featured DESC, created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListColorNames 目录中出现过的全部颜色名（去重、排序）
func (r *GormProductRepository) ListColorNames() ([]string, error) {
	var rows []models.Product
	if err := r.db.Select("id", "colors").Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range rows {
		for _, variant := range row.Colors {
			name := strings.TrimSpace(variant.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	if product.Version == 0 {
		product.Version = 1
	}
	return r.db.Create(product).Error
}

// UpdateColors 无条件覆盖颜色款式（批量写入路径，不做版本校验）
func (r *GormProductRepository) UpdateColors(id uint, colors models.ColorVariants) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"colors":  colors,
			"version": gorm.Expr("version + 1"),
		}).Error
}

// UpdateColorsIfVersion 版本号匹配时覆盖颜色款式，否则返回 ErrWriteConflict
func (r *GormProductRepository) UpdateColorsIfVersion(id uint, version uint64, colors models.ColorVariants) error {
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"colors":  colors,
			"version": gorm.Expr("version + 1"),
		})
	return conflictOnZeroRows(result)
}
