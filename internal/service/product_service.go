package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/cache"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

// catalogCache 目录缓存；Key 每个请求只解析一次，Get 与 Set 共用其结果
type catalogCache interface {
	Key(ctx context.Context, name string) (string, error)
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ProductService 商品目录读取，结果经 redis 按代缓存
type ProductService struct {
	db       *gorm.DB
	repo     repository.ProductRepository
	catalog  catalogCache
	cacheTTL time.Duration
}

// NewProductService 创建商品服务
func NewProductService(db *gorm.DB, repo repository.ProductRepository, cacheTTL time.Duration) *ProductService {
	return &ProductService{db: db, repo: repo, catalog: cache.Catalog{}, cacheTTL: cacheTTL}
}

// ProductPage 分页商品列表
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// List 公开商品列表
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) (*ProductPage, error) {
	key := s.cacheKey(ctx, productListCacheKey(filter))
	var cached ProductPage
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}
	items, total, err := s.repo.WithTx(s.db.WithContext(ctx)).List(filter)
	if err != nil {
		logger.FromContext(ctx).Errorw("product_list_failed", "error", err)
		return nil, ErrProductFetchFailed
	}
	page := &ProductPage{Items: items, Total: total}
	s.writeCache(ctx, key, page)
	return page, nil
}

// GetBySlug 商品详情
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	key := s.cacheKey(ctx, "product:"+slug)
	var cached models.Product
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}
	product, err := s.repo.WithTx(s.db.WithContext(ctx)).GetBySlug(slug)
	if err != nil {
		logger.FromContext(ctx).Errorw("product_fetch_failed", "slug", slug, "error", err)
		return nil, ErrProductFetchFailed
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	s.writeCache(ctx, key, product)
	return product, nil
}

// ListColors 目录中出现过的全部颜色名（去重）
func (s *ProductService) ListColors(ctx context.Context) ([]string, error) {
	key := s.cacheKey(ctx, "colors")
	var cached []string
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}
	colors, err := s.repo.WithTx(s.db.WithContext(ctx)).ListColorNames()
	if err != nil {
		logger.FromContext(ctx).Errorw("product_colors_fetch_failed", "error", err)
		return nil, ErrProductFetchFailed
	}
	s.writeCache(ctx, key, colors)
	return colors, nil
}

// Create 新建商品（种子数据使用）
func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if product == nil || strings.TrimSpace(product.Slug) == "" || strings.TrimSpace(product.Name) == "" {
		return ErrOrderItemInvalid
	}
	if err := s.repo.WithTx(s.db.WithContext(ctx)).Create(product); err != nil {
		return err
	}
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_invalidate_failed", "error", err)
	}
	return nil
}

// cacheKey 解析失败时返回空串，本次请求绕过缓存
func (s *ProductService) cacheKey(ctx context.Context, name string) string {
	key, err := s.catalog.Key(ctx, name)
	if err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_key_failed", "name", name, "error", err)
		return ""
	}
	return key
}

func (s *ProductService) readCache(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.catalog.Get(ctx, key, dest)
	if err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_read_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *ProductService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cacheTTL <= 0 || key == "" {
		return
	}
	if err := s.catalog.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_write_failed", "key", key, "error", err)
	}
}

// productListCacheKey 过滤值按仓储收到的原样入键，仓储区分大小写，键也区分
func productListCacheKey(f repository.ProductListFilter) string {
	price := func(m *models.Money) string {
		if m == nil {
			return "-"
		}
		return m.String()
	}
	return fmt.Sprintf("list:%d:%d:%s:%s:%s:%s:%s:%t:%s",
		f.Page, f.PageSize,
		strings.TrimSpace(f.Category), strings.TrimSpace(f.Color), strings.TrimSpace(f.Size),
		price(f.MinPrice), price(f.MaxPrice),
		f.FeaturedOnly, strings.TrimSpace(f.Search),
	)
}
