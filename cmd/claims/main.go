// claims 为身份设置后台角色：firebase 模式写入 custom claims，local 模式直接签发令牌
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/service"
)

func main() {
	var uid, email, role string
	var revoke bool
	flag.StringVar(&uid, "uid", "", "目标身份 uid（必填）")
	flag.StringVar(&email, "email", "", "local 模式写入令牌的邮箱")
	flag.StringVar(&role, "role", constants.RoleAdmin, "后台角色: admin / auditor")
	flag.BoolVar(&revoke, "revoke", false, "撤销后台权限（仅 firebase 模式）")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.StdLogger().Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	uid = strings.TrimSpace(uid)
	if uid == "" {
		stdLog.Fatalf("uid is required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != constants.RoleAdmin && role != constants.RoleAuditor {
		stdLog.Fatalf("unsupported role: %s", role)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(cfg.Auth.Provider)) {
	case constants.AuthProviderFirebase:
		verifier, err := service.NewFirebaseTokenVerifier(ctx, cfg.Auth.Firebase)
		if err != nil {
			stdLog.Fatalf("init firebase failed: %v", err)
		}
		if revoke {
			role = ""
		}
		if err := verifier.SetAdminClaim(ctx, uid, role); err != nil {
			stdLog.Fatalf("set admin claim failed: %v", err)
		}
		logger.Infow("admin_claim_updated", "uid", uid, "role", role, "revoked", revoke)
		stdLog.Printf("claims updated for %s; the user must refresh their ID token", uid)
	default:
		if revoke {
			stdLog.Fatalf("revoke is only supported with the firebase provider")
		}
		auth := service.NewAuthService(cfg, nil)
		token, expiresAt, err := auth.IssueToken(service.Identity{UID: uid, Email: email, Admin: true, Role: role})
		if err != nil {
			stdLog.Fatalf("issue token failed: %v", err)
		}
		fmt.Println(token)
		stdLog.Printf("token expires at %s", expiresAt.Format(time.RFC3339))
	}
}
