package router

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/authz"
	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "Cache-Control", "X-Requested-With", requestIDHeader}
)

// CORSMiddleware 预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", ")
	headers := strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := resolveAllowedOrigin(c.GetHeader("Origin"), origins, cfg.AllowCredentials); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// resolveAllowedOrigin 带凭证时不能回 *，改为回显请求来源
func resolveAllowedOrigin(origin string, allowed []string, withCredentials bool) string {
	if slices.Contains(allowed, "*") {
		if withCredentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin != "" && slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, origin) }) {
		return origin
	}
	return ""
}

// RequestIDMiddleware 沿用上游 X-Request-ID，没有则生成，并写入日志上下文
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), "request_id", id))
		c.Next()
	}
}

// LoggerMiddleware 每个请求一行访问日志，5xx 或带 gin 错误时记 error
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	access := base.Sugar().Named("access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 || status >= http.StatusInternalServerError {
			access.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		access.Infow("request", fields...)
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// IdentityAuthMiddleware 校验 Bearer 令牌并把身份写入上下文；
// 令牌来源由 auth.provider 决定（本地 HS256 或 Firebase ID token）。
func IdentityAuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			logger.Errorw("identity_verifier_unavailable")
			handlershared.RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil || identity == nil || identity.UID == "" {
			handlershared.RequestLog(c).Debugw("identity_token_rejected", "error", err)
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			return
		}
		handlershared.SetIdentity(c, identity)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), "uid", identity.UID))
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC：仅带 admin 声明的身份可进入，再按角色校验路径与方法
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			handlershared.RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		identity, ok := handlershared.GetIdentity(c)
		if !ok {
			return
		}
		if !identity.Admin {
			handlershared.RequestLog(c).Warnw("admin_rbac_not_admin", "path", c.Request.URL.Path)
			handlershared.RespondError(c, response.CodeForbidden, "error.forbidden", nil)
			return
		}
		role := identity.Role
		if role == "" {
			role = constants.RoleAdmin
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			handlershared.RequestLog(c).Errorw("admin_rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			handlershared.RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		if !allowed {
			handlershared.RequestLog(c).Warnw("admin_rbac_permission_denied",
				"role", role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			handlershared.RespondError(c, response.CodeForbidden, "error.forbidden", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
