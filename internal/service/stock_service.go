package service

import (
	"context"

	"github.com/amineweldmaryem/boutique/internal/cache"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/metrics"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

// StockService 颜色款式库存调整
//
// 两条路径语义不同：
//   - 批量路径（下单后触发）：事务外逐个读取，缺失商品记录日志后跳过，
//     所有写入无条件提交在同一批次里。并发扣减同一商品时存在覆盖窗口，这是已知的取舍。
//   - 事务路径（删除订单回补）：在调用方事务中读取并做版本校验写入，
//     缺失商品会返回 ErrProductNotFound 使整个事务回滚。
type StockService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

// NewStockService 创建库存服务
func NewStockService(db *gorm.DB, productRepo repository.ProductRepository) *StockService {
	return &StockService{db: db, productRepo: productRepo}
}

// StockBatchResult 批量调整结果
type StockBatchResult struct {
	Updated        []uint `json:"updated"`
	Skipped        []uint `json:"skipped"`
	VariantMissing int    `json:"variant_missing"`
}

// productStockWrite 单个商品合并后的一次写入
type productStockWrite struct {
	productID uint
	version   uint64
	colors    models.ColorVariants
}

// stockPlan 读阶段的结果，写阶段只消费它
type stockPlan struct {
	writes         []productStockWrite
	skipped        []uint
	variantMissing int
}

// DecrementForOrder 下单后扣减订单项对应颜色库存（批量路径）
func (s *StockService) DecrementForOrder(ctx context.Context, order *models.Order) (*StockBatchResult, error) {
	if order == nil {
		return &StockBatchResult{}, nil
	}
	ctx = logger.WithContext(ctx, "order_id", order.ID)
	return s.ApplyBatch(ctx, orderStockAdjustments(order.Items, -1))
}

// ApplyBatch 非事务批量调整：先独立读取，再一次性提交全部无条件写入
func (s *StockService) ApplyBatch(ctx context.Context, ops []StockAdjustment) (*StockBatchResult, error) {
	result := &StockBatchResult{}
	if len(ops) == 0 {
		return result, nil
	}
	plan, err := s.plan(ctx, s.productRepo.WithTx(s.db.WithContext(ctx)), ops, false)
	if err != nil {
		metrics.RecordStockAdjustment(constants.StockPathBatch, "failed", len(ops))
		return nil, err
	}

	if len(plan.writes) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.productRepo.WithTx(tx)
			for _, w := range plan.writes {
				if err := repo.UpdateColors(w.productID, w.colors); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.FromContext(ctx).Errorw("stock_batch_commit_failed", "products", len(plan.writes), "error", err)
			metrics.RecordStockAdjustment(constants.StockPathBatch, "failed", len(plan.writes))
			return nil, err
		}
		s.invalidateCatalog(ctx)
	}

	for _, w := range plan.writes {
		result.Updated = append(result.Updated, w.productID)
	}
	result.Skipped = plan.skipped
	result.VariantMissing = plan.variantMissing
	metrics.RecordStockAdjustment(constants.StockPathBatch, "updated", len(result.Updated))
	metrics.RecordStockAdjustment(constants.StockPathBatch, "skipped", len(result.Skipped))
	metrics.RecordStockAdjustment(constants.StockPathBatch, "variant_missing", result.VariantMissing)
	return result, nil
}

// planRestockInTx 事务路径的读阶段：读取订单项涉及的全部商品并计算回补结果
func (s *StockService) planRestockInTx(ctx context.Context, tx *gorm.DB, items []models.OrderItem) (*stockPlan, error) {
	return s.plan(ctx, s.productRepo.WithTx(tx), orderStockAdjustments(items, 1), true)
}

// commitInTx 事务路径的写阶段：按版本号写入，任一商品被并发修改则返回 ErrWriteConflict
func (s *StockService) commitInTx(tx *gorm.DB, plan *stockPlan) error {
	if plan == nil {
		return nil
	}
	repo := s.productRepo.WithTx(tx)
	for _, w := range plan.writes {
		if err := repo.UpdateColorsIfVersion(w.productID, w.version, w.colors); err != nil {
			return err
		}
	}
	return nil
}

// afterCommit 事务提交后的收尾：指标与目录缓存失效
func (s *StockService) afterCommit(ctx context.Context, plan *stockPlan) {
	if plan == nil || len(plan.writes) == 0 {
		return
	}
	metrics.RecordStockAdjustment(constants.StockPathTransaction, "updated", len(plan.writes))
	metrics.RecordStockAdjustment(constants.StockPathTransaction, "variant_missing", plan.variantMissing)
	s.invalidateCatalog(ctx)
}

// plan 读取并合并每个商品的调整。strict=true 时缺失商品直接报错。
func (s *StockService) plan(ctx context.Context, repo repository.ProductRepository, ops []StockAdjustment, strict bool) (*stockPlan, error) {
	log := logger.FromContext(ctx)
	productIDs, grouped := groupStockAdjustments(ops)
	plan := &stockPlan{}
	for _, productID := range productIDs {
		product, err := repo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			if strict {
				log.Warnw("stock_restock_product_missing", "product_id", productID)
				return nil, ErrProductNotFound
			}
			log.Warnw("stock_decrement_product_missing", "product_id", productID)
			plan.skipped = append(plan.skipped, productID)
			continue
		}
		colors, missing := applyStockAdjustments(product.Colors, grouped[productID])
		for _, color := range missing {
			log.Warnw("stock_color_variant_missing", "product_id", productID, "color", color)
		}
		plan.variantMissing += len(missing)
		if len(missing) == len(grouped[productID]) {
			// 没有任何颜色命中，不产生写入
			continue
		}
		plan.writes = append(plan.writes, productStockWrite{
			productID: productID,
			version:   product.Version,
			colors:    colors,
		})
	}
	return plan, nil
}

func (s *StockService) invalidateCatalog(ctx context.Context) {
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.FromContext(ctx).Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}
