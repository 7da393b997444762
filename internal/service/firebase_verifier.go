package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseTokenVerifier 通过 Firebase Admin SDK 校验 ID token，
// 管理员身份来自自定义声明 admin=true
type FirebaseTokenVerifier struct {
	client *auth.Client
}

// NewFirebaseTokenVerifier 创建 Firebase 身份校验器
func NewFirebaseTokenVerifier(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseTokenVerifier, error) {
	var opts []option.ClientOption
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	var appConfig *firebase.Config
	if projectID := strings.TrimSpace(cfg.ProjectID); projectID != "" {
		appConfig = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app failed: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth failed: %w", err)
	}
	return &FirebaseTokenVerifier{client: client}, nil
}

// Verify 实现 TokenVerifier
func (v *FirebaseTokenVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return identityFromClaims(decoded.UID, decoded.Claims), nil
}

// SetAdminClaim 为用户写入管理员自定义声明；role 为空表示撤销
func (v *FirebaseTokenVerifier) SetAdminClaim(ctx context.Context, uid, role string) error {
	claims := map[string]interface{}{"admin": false}
	if role != "" {
		claims = map[string]interface{}{"admin": true, "role": role}
	}
	return v.client.SetCustomUserClaims(ctx, uid, claims)
}

func identityFromClaims(uid string, claims map[string]interface{}) *Identity {
	identity := &Identity{UID: uid}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if admin, ok := claims["admin"].(bool); ok {
		identity.Admin = admin
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	if identity.Admin && identity.Role == "" {
		identity.Role = constants.RoleAdmin
	}
	return identity
}
