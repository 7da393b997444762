package admin

import (
	"errors"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录返回
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// AdminLogin 本地管理员登录，仅 auth.provider=local 时可用
func (h *Handler) AdminLogin(c *gin.Context) {
	if h.Config.Auth.Provider != "" && h.Config.Auth.Provider != constants.AuthProviderLocal {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Warnw("admin_login_failed", "username", req.Username)
			respondError(c, response.CodeUnauthorized, "error.login_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_login_succeeded", "admin_id", admin.ID, "role", admin.Role)
	response.Success(c, LoginResponse{Token: token, ExpiresAt: expiresAt, Admin: admin})
}

// AdminAuthzMe 当前管理身份及其角色策略
func (h *Handler) AdminAuthzMe(c *gin.Context) {
	identity, ok := handlershared.GetIdentity(c)
	if !ok {
		return
	}
	role := identity.Role
	if role == "" {
		role = constants.RoleAdmin
	}
	policies, err := h.AuthzService.RolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"uid":      identity.UID,
		"email":    identity.Email,
		"role":     role,
		"policies": policies,
	})
}
