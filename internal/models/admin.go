package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 本地后台账号（auth.provider=local 时用于登录签发令牌）
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`                  // 账号
	PasswordHash string         `gorm:"not null" json:"-"`                                     // 密码哈希
	Role         string         `gorm:"type:varchar(50);not null;default:'admin'" json:"role"` // 角色（admin / auditor）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                         // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
