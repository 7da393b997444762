package service

import (
	"sort"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/models"

	"github.com/shopspring/decimal"
)

var amineShareRate = decimal.NewFromInt(constants.RevenueShareAminePercent).Div(decimal.NewFromInt(100))

// splitRevenue 按单笔订单总额拆分收入：Amine 10%（四舍五入到分），Maryem 取余数。
// 余数法保证两份之和恒等于订单总额，累加与回滚互为精确逆运算。
func splitRevenue(total models.Money) (amine models.Money, maryem models.Money) {
	amine = models.NewMoneyFromDecimal(total.Decimal.Mul(amineShareRate))
	maryem = total.Minus(amine)
	return amine, maryem
}

// monthKey 以下单时间（非送达时间）计算月度键
func monthKey(orderDate time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return orderDate.In(loc).Format(constants.MonthKeyLayout)
}

func newSalesAnalyticsBaseline() *models.SalesAnalytics {
	return &models.SalesAnalytics{
		ID:                 models.SalesAnalyticsSummaryID,
		MonthlySales:       models.MonthlySales{},
		TopSellingProducts: models.TopSellingProducts{},
	}
}

// accrueSalesAnalytics 将一笔送达订单累加进统计，返回新快照，不修改 current。
// totalCustomers 为当前用户总数快照，直接覆盖旧值。
func accrueSalesAnalytics(current *models.SalesAnalytics, order *models.Order, totalCustomers int64, loc *time.Location, topLimit int, now time.Time) *models.SalesAnalytics {
	next := current.Clone()
	if next == nil {
		next = newSalesAnalyticsBaseline()
	}
	if next.MonthlySales == nil {
		next.MonthlySales = models.MonthlySales{}
	}

	amine, maryem := splitRevenue(order.TotalAmount)
	next.TotalRevenue = next.TotalRevenue.Plus(order.TotalAmount)
	next.RevenueAmine = next.RevenueAmine.Plus(amine)
	next.RevenueMaryem = next.RevenueMaryem.Plus(maryem)
	next.TotalOrdersDelivered++
	next.TotalItemsSold += order.ItemCount()
	next.TotalCustomers = totalCustomers

	key := monthKey(order.OrderDate, loc)
	bucket := next.MonthlySales[key]
	bucket.Revenue = bucket.Revenue.Plus(order.TotalAmount)
	bucket.Orders++
	next.MonthlySales[key] = bucket

	for _, item := range order.Items {
		if item.Quantity <= 0 {
			continue
		}
		idx := findProductSales(next.TopSellingProducts, item.ProductID)
		if idx >= 0 {
			next.TopSellingProducts[idx].QuantitySold += int64(item.Quantity)
			continue
		}
		next.TopSellingProducts = append(next.TopSellingProducts, models.ProductSales{
			ProductID:    item.ProductID,
			Name:         item.Name,
			QuantitySold: int64(item.Quantity),
		})
	}
	next.TopSellingProducts = rankTopSellers(next.TopSellingProducts, topLimit)
	next.LastUpdated = now
	return next
}

// reverseSalesAnalytics 从统计中减去一笔已送达订单的贡献，返回新快照，不修改 current。
// 月度桶订单数归零即删除；热销条目数量归零即移除；标量字段下限为 0；TotalCustomers 不变。
func reverseSalesAnalytics(current *models.SalesAnalytics, order *models.Order, loc *time.Location, now time.Time) *models.SalesAnalytics {
	next := current.Clone()
	if next == nil {
		return nil
	}

	amine, maryem := splitRevenue(order.TotalAmount)
	next.TotalRevenue = next.TotalRevenue.Minus(order.TotalAmount).FloorZero()
	next.RevenueAmine = next.RevenueAmine.Minus(amine).FloorZero()
	next.RevenueMaryem = next.RevenueMaryem.Minus(maryem).FloorZero()
	next.TotalOrdersDelivered = floorZero(next.TotalOrdersDelivered - 1)
	next.TotalItemsSold = floorZero(next.TotalItemsSold - order.ItemCount())

	key := monthKey(order.OrderDate, loc)
	if bucket, ok := next.MonthlySales[key]; ok {
		bucket.Revenue = bucket.Revenue.Minus(order.TotalAmount).FloorZero()
		bucket.Orders--
		if bucket.Orders <= 0 {
			delete(next.MonthlySales, key)
		} else {
			next.MonthlySales[key] = bucket
		}
	}

	for _, item := range order.Items {
		if item.Quantity <= 0 {
			continue
		}
		idx := findProductSales(next.TopSellingProducts, item.ProductID)
		if idx < 0 {
			continue
		}
		next.TopSellingProducts[idx].QuantitySold -= int64(item.Quantity)
		if next.TopSellingProducts[idx].QuantitySold <= 0 {
			next.TopSellingProducts = append(next.TopSellingProducts[:idx], next.TopSellingProducts[idx+1:]...)
		}
	}
	next.TopSellingProducts = rankTopSellers(next.TopSellingProducts, 0)
	next.LastUpdated = now
	return next
}

func findProductSales(list models.TopSellingProducts, productID uint) int {
	for i := range list {
		if list[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// rankTopSellers 按销量降序稳定排序；limit>0 时截断
func rankTopSellers(list models.TopSellingProducts, limit int) models.TopSellingProducts {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].QuantitySold > list[j].QuantitySold
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
