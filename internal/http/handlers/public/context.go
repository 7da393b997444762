package public

import (
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
)

func getIdentity(c *gin.Context) (*service.Identity, bool) {
	return handlershared.GetIdentity(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
