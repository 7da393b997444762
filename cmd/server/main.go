package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/amineweldmaryem/boutique/internal/app"
	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "运行模式: all | api | worker")
	flag.Parse()

	if _, err := app.ParseMode(*mode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("\033[95m\033[1mAmine & Maryem Boutique\033[0m  \033[2mmode=%s\033[0m\n", *mode)

	cfg, err := config.Load()
	if err != nil {
		logger.StdLogger().Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := prepareStorage(cfg, stdLog); err != nil {
		stdLog.Fatalf("prepare storage: %v", err)
	}

	err = app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    *mode,
	})
	if err != nil {
		stdLog.Fatalf("server exited: %v", err)
	}
}

// prepareStorage 连接数据库并迁移；本地身份模式下检查签名密钥并确保存在后台账号
func prepareStorage(cfg *config.Config, stdLog *log.Logger) error {
	localAuth := cfg.Auth.Provider == "" || strings.EqualFold(cfg.Auth.Provider, constants.AuthProviderLocal)
	release := cfg.Server.Mode == "release"

	if localAuth && isWeakSecret(cfg.JWT.SecretKey) {
		if release {
			return errors.New("jwt.secret is weak or still the default value")
		}
		stdLog.Printf("jwt.secret is weak, replace it before going to production")
	}

	if err := models.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(nil); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !localAuth {
		return nil
	}

	password := os.Getenv("BQ_DEFAULT_ADMIN_PASSWORD")
	if release && password == "" {
		stdLog.Printf("BQ_DEFAULT_ADMIN_PASSWORD is empty, default admin not created")
		return nil
	}
	if err := models.InitDefaultAdmin(nil, os.Getenv("BQ_DEFAULT_ADMIN_USERNAME"), password); err != nil {
		stdLog.Printf("default admin not created: %v", err)
	}
	return nil
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lower := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "changeme", "your-secret", "secret-key"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
