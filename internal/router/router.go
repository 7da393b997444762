package router

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/authz"
	"github.com/amineweldmaryem/boutique/internal/cache"
	"github.com/amineweldmaryem/boutique/internal/config"
	adminhandlers "github.com/amineweldmaryem/boutique/internal/http/handlers/admin"
	publichandlers "github.com/amineweldmaryem/boutique/internal/http/handlers/public"
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/metrics"
	"github.com/amineweldmaryem/boutique/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if err := handlershared.RegisterValidators(); err != nil {
		log.Error("register_validators_failed", zap.Error(err))
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bq"
	}
	redisClient := cache.Client()
	adminLoginRule := rateLimitRuleFromConfig(redisPrefix+":rate:admin_login", cfg.Security.LoginRateLimit)
	orderRule := rateLimitRuleFromConfig(redisPrefix+":rate:order", cfg.Security.OrderRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GinMiddleware())
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/colors", publicHandler.ListColors)
			public.GET("/products/:slug", publicHandler.GetProduct)
		}

		// 顾客接口（需鉴权）
		user := apiV1.Group("")
		user.Use(IdentityAuthMiddleware(c.TokenVerifier))
		{
			user.GET("/me/profile", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.POST("/orders", RateLimitMiddleware(redisClient, orderRule, KeyByIdentity), publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(IdentityAuthMiddleware(c.TokenVerifier), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/authz/me", adminHandler.AdminAuthzMe)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, adminPermissionCatalog(r.Routes()))
				})

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/count", adminHandler.AdminCountOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
				authorized.DELETE("/orders/:id", adminHandler.AdminDeleteOrder)

				// 销售统计
				authorized.GET("/analytics", adminHandler.AdminGetAnalytics)
				authorized.DELETE("/analytics", adminHandler.AdminResetAnalytics)

				// 开发维护
				authorized.POST("/dev/reset", adminHandler.AdminResetTestData)
			}
		}
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		sqlDB, err := c.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			response.Error(ctx, response.CodeServiceUnavailable, "database unavailable")
			return
		}
		response.Success(ctx, gin.H{"status": "ok"})
	})

	return r
}

// permissionEntry 后台可授权的一条 方法+路径，供前端渲染角色矩阵
type permissionEntry struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// adminPermissionCatalog 从已注册路由推导，登录接口除外
func adminPermissionCatalog(routes gin.RoutesInfo) []permissionEntry {
	entries := make([]permissionEntry, 0, len(routes))
	seen := make(map[string]bool, len(routes))
	for _, route := range routes {
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") || route.Path == "/api/v1/admin/login" {
			continue
		}
		if route.Method == "HEAD" || route.Method == "OPTIONS" {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := route.Method + ":" + object
		if seen[permission] {
			continue
		}
		seen[permission] = true
		entries = append(entries, permissionEntry{
			Module:     permissionModule(object),
			Method:     route.Method,
			Object:     object,
			Permission: permission,
		})
	}
	slices.SortFunc(entries, func(a, b permissionEntry) int {
		return cmp.Or(
			cmp.Compare(a.Module, b.Module),
			cmp.Compare(a.Object, b.Object),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return entries
}

// permissionModule "/admin/orders/:id" -> "orders"
func permissionModule(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	if len(segments) > 1 && segments[0] == "admin" {
		return segments[1]
	}
	if segments[0] == "" {
		return "system"
	}
	return segments[0]
}

func rateLimitRuleFromConfig(prefix string, cfg config.RateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:      prefix,
		Window:      time.Duration(cfg.WindowSeconds) * time.Second,
		MaxRequests: int64(cfg.MaxAttempts),
	}
}
