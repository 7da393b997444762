package service

import (
	"github.com/amineweldmaryem/boutique/internal/models"
)

// StockAdjustment 单条库存调整：Delta 为负表示扣减（下限 0），为正表示回补
type StockAdjustment struct {
	ProductID uint
	Color     string
	Delta     int
}

// orderStockAdjustments 将订单项转换为库存调整；sign=-1 扣减，sign=+1 回补
func orderStockAdjustments(items []models.OrderItem, sign int) []StockAdjustment {
	ops := make([]StockAdjustment, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			continue
		}
		ops = append(ops, StockAdjustment{
			ProductID: item.ProductID,
			Color:     item.Color,
			Delta:     sign * item.Quantity,
		})
	}
	return ops
}

// groupStockAdjustments 按商品分组，保留商品首次出现的顺序
func groupStockAdjustments(ops []StockAdjustment) ([]uint, map[uint][]StockAdjustment) {
	order := make([]uint, 0)
	grouped := make(map[uint][]StockAdjustment)
	for _, op := range ops {
		if _, ok := grouped[op.ProductID]; !ok {
			order = append(order, op.ProductID)
		}
		grouped[op.ProductID] = append(grouped[op.ProductID], op)
	}
	return order, grouped
}

// applyStockAdjustments 在颜色款式副本上应用同一商品的全部调整。
// 颜色按名称精确匹配，命中第一个即止；未命中的调整被忽略并返回其颜色名。
func applyStockAdjustments(colors models.ColorVariants, ops []StockAdjustment) (models.ColorVariants, []string) {
	next := colors.Clone()
	var missing []string
	for _, op := range ops {
		idx := next.Find(op.Color)
		if idx < 0 {
			missing = append(missing, op.Color)
			continue
		}
		stock := next[idx].Stock + op.Delta
		if stock < 0 {
			stock = 0
		}
		next[idx].Stock = stock
	}
	return next, missing
}
