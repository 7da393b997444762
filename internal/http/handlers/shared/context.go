package shared

import (
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

// IdentityKey gin 上下文中保存已验证身份的键
const IdentityKey = "identity"

// SetIdentity 写入已验证身份
func SetIdentity(c *gin.Context, identity *service.Identity) {
	c.Set(IdentityKey, identity)
}

// GetIdentity 读取已验证身份，缺失时直接返回 401。
func GetIdentity(c *gin.Context) (*service.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	identity, ok := value.(*service.Identity)
	if !ok || identity == nil || identity.UID == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return nil, false
	}
	return identity, true
}
