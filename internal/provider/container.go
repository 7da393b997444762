package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/authz"
	"github.com/amineweldmaryem/boutique/internal/cache"
	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/queue"
	"github.com/amineweldmaryem/boutique/internal/repository"
	"github.com/amineweldmaryem/boutique/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	UserRepo           repository.UserRepository
	OrderRepo          repository.OrderRepository
	ProductRepo        repository.ProductRepository
	SalesAnalyticsRepo repository.SalesAnalyticsRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	TokenVerifier      service.TokenVerifier
	FirebaseVerifier   *service.FirebaseTokenVerifier
	ProductService     *service.ProductService
	UserService        *service.UserService
	StockService       *service.StockService
	AnalyticsService   *service.AnalyticsService
	OrderService       *service.OrderService
	MaintenanceService *service.MaintenanceService
}

// NewContainer 初始化容器（使用全局数据库连接），失败直接 panic
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c, err := Build(context.Background(), cfg, models.DB, queueClient)
	if err != nil {
		logger.Errorw("provider_build_failed", "error", err)
		panic(err)
	}
	return c
}

// Build 基于给定数据库与队列客户端装配容器，测试中直接使用
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB, queueClient *queue.Client) (*Container, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("provider requires config and db")
	}
	if queueClient == nil {
		queueClient, _ = queue.NewClient(nil)
	}
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := c.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.SalesAnalyticsRepo = repository.NewSalesAnalyticsRepository(db)
}

func (c *Container) initServices(ctx context.Context) error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		return fmt.Errorf("init authz failed: %w", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return fmt.Errorf("bootstrap builtin roles failed: %w", err)
	}
	c.AuthzService = authzService

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	switch strings.ToLower(strings.TrimSpace(c.Config.Auth.Provider)) {
	case constants.AuthProviderFirebase:
		verifier, err := service.NewFirebaseTokenVerifier(ctx, c.Config.Auth.Firebase)
		if err != nil {
			return err
		}
		c.FirebaseVerifier = verifier
		c.TokenVerifier = verifier
	case "", constants.AuthProviderLocal:
		c.TokenVerifier = c.AuthService
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Config.Auth.Provider)
	}

	shippingCost, err := models.ParseMoney(c.Config.Order.ShippingCost)
	if err != nil {
		return fmt.Errorf("invalid order.shipping_cost: %w", err)
	}

	catalogTTL := time.Duration(c.Config.Redis.CatalogTTLSeconds) * time.Second
	c.ProductService = service.NewProductService(c.DB, c.ProductRepo, catalogTTL)
	c.UserService = service.NewUserService(c.DB, c.UserRepo)
	c.StockService = service.NewStockService(c.DB, c.ProductRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.DB, c.SalesAnalyticsRepo, c.UserRepo, service.AnalyticsOptions{
		Timezone:        c.Config.Analytics.Timezone,
		TopSellersLimit: c.Config.Analytics.TopSellersLimit,
	})
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.ProductRepo, c.StockService, c.AnalyticsService, c.QueueClient, service.OrderOptions{
		ShippingCost:   shippingCost,
		TxnMaxAttempts: c.Config.Order.TxnMaxAttempts,
		MaxItems:       c.Config.Order.MaxItems,
		MaxQuantity:    c.Config.Order.MaxQuantity,
	})
	c.MaintenanceService = service.NewMaintenanceService(c.DB, c.Config.Dev.ResetEnabled, c.OrderRepo, c.OrderService, c.AnalyticsService)
	return nil
}
