package models

import (
	"time"
)

// OrderItem 订单项表，价格与名称均为下单时快照，与商品实时价格解耦
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                           // 主键
	OrderID         uint      `gorm:"index;not null" json:"order_id"`                                 // 订单ID
	ProductID       uint      `gorm:"index;not null" json:"product_id"`                               // 商品ID
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`                         // 商品名称快照
	Color           string    `gorm:"type:varchar(100);not null" json:"color"`                        // 颜色款式名
	Size            string    `gorm:"type:varchar(50)" json:"size"`                                   // 尺码
	Quantity        int       `gorm:"not null" json:"quantity"`                                       // 数量
	PriceAtPurchase Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_purchase"` // 下单单价
	ImageURL        string    `gorm:"type:varchar(500)" json:"image_url"`                             // 图片快照
	CreatedAt       time.Time `json:"created_at"`                                                     // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
