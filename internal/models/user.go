package models

import (
	"time"

	"gorm.io/gorm"
)

// User 顾客资料，UID 来自身份提供方；顾客总数以此表计数
type User struct {
	ID              uint            `gorm:"primarykey" json:"id"`                              // 主键
	UID             string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"uid"` // 身份提供方 uid
	Email           string          `gorm:"type:varchar(255);index" json:"email"`              // 邮箱
	DisplayName     string          `gorm:"type:varchar(100);default:''" json:"display_name"`  // 昵称
	Phone           string          `gorm:"type:varchar(50);default:''" json:"phone"`          // 电话
	ShippingAddress ShippingAddress `gorm:"type:json" json:"shipping_address"`                 // 默认收货地址
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt       time.Time       `json:"updated_at"`                                        // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
