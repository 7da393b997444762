package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Identity 已验证的调用方身份
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier 身份令牌校验
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AuthService 本地身份签发：管理员账号登录与 HS256 令牌
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	now       func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo, now: time.Now}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// JWTClaims 本地令牌声明，Subject 即用户 uid
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken 为身份签发本地令牌
func (s *AuthService) IssueToken(identity Identity) (string, time.Time, error) {
	if strings.TrimSpace(identity.UID) == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := JWTClaims{
		Email: identity.Email,
		Admin: identity.Admin,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify 实现 TokenVerifier：校验本地 HS256 令牌
func (s *AuthService) Verify(_ context.Context, tokenString string) (*Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	identity := &Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Admin: claims.Admin,
		Role:  claims.Role,
	}
	if identity.Admin && identity.Role == "" {
		identity.Role = constants.RoleAdmin
	}
	return identity, nil
}

var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("boutique-placeholder"), bcrypt.DefaultCost)

// Login 管理员登录，成功后签发带 admin 声明的令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		// 账号不存在时也做一次比对，响应耗时与密码错误一致
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	role := admin.Role
	if role == "" {
		role = constants.RoleAdmin
	}
	token, expiresAt, err := s.IssueToken(Identity{
		UID:   fmt.Sprintf("admin:%d", admin.ID),
		Admin: true,
		Role:  role,
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		logger.FromContext(ctx).Warnw("admin_last_login_update_failed", "admin_id", admin.ID, "error", err)
	} else {
		admin.LastLoginAt = &now
	}
	return admin, token, expiresAt, nil
}

// IsTokenError 判断是否为令牌校验失败
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenInvalid)
}
