package models

import (
	"time"
)

// Order 订单表（下单时的购买快照）
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo         string          `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	UserID          string          `gorm:"type:varchar(128);index;not null" json:"user_id"`            // 下单用户（身份提供方 uid）
	Status          string          `gorm:"type:varchar(20);index;not null" json:"status"`              // 订单状态
	ShippingCost    Money           `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"` // 运费
	TotalAmount     Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 总金额（含运费）
	OrderDate       time.Time       `gorm:"index;not null" json:"order_date"`                           // 下单时间，月度统计以此为准
	ShippingAddress ShippingAddress `gorm:"type:json" json:"shipping_address"`                          // 收货地址
	Version         uint64          `gorm:"not null;default:1" json:"-"`                                // 乐观锁版本
	CreatedAt       time.Time       `json:"created_at"`                                                 // 创建时间
	UpdatedAt       time.Time       `json:"updated_at"`                                                 // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ItemCount 订单商品件数
func (o *Order) ItemCount() int64 {
	var n int64
	for _, item := range o.Items {
		n += int64(item.Quantity)
	}
	return n
}
