package service

import (
	"context"
	"strings"

	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

// UserService 顾客资料
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

// NewUserService 创建顾客资料服务
func NewUserService(db *gorm.DB, userRepo repository.UserRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo}
}

// UpsertProfileInput 资料写入参数
type UpsertProfileInput struct {
	UID             string
	Email           string
	DisplayName     string
	Phone           string
	ShippingAddress models.ShippingAddress
}

// UpsertProfile 创建或更新顾客资料。顾客总数统计以 users 表为准。
func (s *UserService) UpsertProfile(ctx context.Context, input UpsertProfileInput) (*models.User, error) {
	uid := strings.TrimSpace(input.UID)
	if uid == "" || len(input.DisplayName) > 100 || len(input.Phone) > 50 {
		return nil, ErrProfileInvalid
	}
	user := &models.User{
		UID:             uid,
		Email:           strings.TrimSpace(input.Email),
		DisplayName:     strings.TrimSpace(input.DisplayName),
		Phone:           strings.TrimSpace(input.Phone),
		ShippingAddress: input.ShippingAddress,
	}
	repo := s.userRepo.WithTx(s.db.WithContext(ctx))
	if err := repo.Upsert(user); err != nil {
		logger.FromContext(ctx).Errorw("user_profile_upsert_failed", "uid", uid, "error", err)
		return nil, err
	}
	return repo.GetByUID(uid)
}

// GetProfile 读取顾客资料，不存在时返回 nil
func (s *UserService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	return s.userRepo.WithTx(s.db.WithContext(ctx)).GetByUID(strings.TrimSpace(uid))
}
