package public

import (
	"errors"

	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	DisplayName     string                 `json:"display_name" binding:"max=100"`
	Phone           string                 `json:"phone" binding:"max=50"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// GetProfile 当前顾客资料
func (h *Handler) GetProfile(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetProfile(c.Request.Context(), identity.UID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.profile_fetch_failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.profile_not_found", nil)
		return
	}
	response.Success(c, user)
}

// UpdateProfile 创建或更新当前顾客资料（首次写入即计入顾客总数）
func (h *Handler) UpdateProfile(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	user, err := h.UserService.UpsertProfile(c.Request.Context(), service.UpsertProfileInput{
		UID:             identity.UID,
		Email:           identity.Email,
		DisplayName:     req.DisplayName,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileInvalid) {
			respondError(c, response.CodeBadRequest, "error.profile_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}
