package repository

import (
	"context"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 本地登录账号，仅 auth.provider=local 时使用
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type GormAdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByUsername 用户名不区分大小写，不存在时返回 nil, nil
func (r *GormAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admins []models.Admin
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Limit(1).
		Find(&admins).Error
	if err != nil || len(admins) == 0 {
		return nil, err
	}
	return &admins[0], nil
}

// TouchLastLogin 只更新 last_login_at，不触碰 updated_at
func (r *GormAdminRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}
