package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// SalesAnalyticsSummaryID 销售统计单例主键
const SalesAnalyticsSummaryID = "summary"

// MonthlySalesEntry 月度销售
type MonthlySalesEntry struct {
	Revenue Money `json:"revenue"`
	Orders  int64 `json:"orders"`
}

// MonthlySales 月份（YYYY-MM）到月度销售的映射
type MonthlySales map[string]MonthlySalesEntry

// Value 实现 driver.Valuer 接口
func (m MonthlySales) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// Scan 实现 sql.Scanner 接口
func (m *MonthlySales) Scan(value interface{}) error {
	*m = MonthlySales{}
	return scanJSON(value, m)
}

// ProductSales 热销商品条目
type ProductSales struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantity_sold"`
}

// TopSellingProducts 热销榜
type TopSellingProducts []ProductSales

// Value 实现 driver.Valuer 接口
func (t TopSellingProducts) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

// Scan 实现 sql.Scanner 接口
func (t *TopSellingProducts) Scan(value interface{}) error {
	*t = TopSellingProducts{}
	return scanJSON(value, t)
}

// SalesAnalytics 销售统计汇总（单例）
// 说明：所有累计字段只由订单进入 delivered 时累加、删除已送达订单时回滚；
// TotalCustomers 是累加时刻的用户总数快照，不参与回滚。
type SalesAnalytics struct {
	ID                   string             `gorm:"primaryKey;type:varchar(32)" json:"id"`
	TotalRevenue         Money              `gorm:"type:decimal(20,2);not null;default:0" json:"total_revenue"`
	RevenueAmine         Money              `gorm:"type:decimal(20,2);not null;default:0" json:"revenue_amine"`
	RevenueMaryem        Money              `gorm:"type:decimal(20,2);not null;default:0" json:"revenue_maryem"`
	TotalOrdersDelivered int64              `gorm:"not null;default:0" json:"total_orders_delivered"`
	TotalItemsSold       int64              `gorm:"not null;default:0" json:"total_items_sold"`
	TotalCustomers       int64              `gorm:"not null;default:0" json:"total_customers"`
	MonthlySales         MonthlySales       `gorm:"type:json" json:"monthly_sales"`
	TopSellingProducts   TopSellingProducts `gorm:"type:json" json:"top_selling_products"`
	LastUpdated          time.Time          `json:"last_updated"`
	Version              uint64             `gorm:"not null;default:1" json:"-"`
}

// TableName 指定表名
func (SalesAnalytics) TableName() string {
	return "sales_analytics"
}

// Clone 深拷贝，计算累加/回滚时不修改读取到的快照
func (a *SalesAnalytics) Clone() *SalesAnalytics {
	if a == nil {
		return nil
	}
	out := *a
	out.MonthlySales = make(MonthlySales, len(a.MonthlySales))
	for k, v := range a.MonthlySales {
		out.MonthlySales[k] = v
	}
	out.TopSellingProducts = append(TopSellingProducts(nil), a.TopSellingProducts...)
	return &out
}
