package admin

import (
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var orderFetchErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
}

var orderStatusErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderTransitInvalid, Code: response.CodeBadRequest, Key: "error.order_transit_invalid"},
	{Target: service.ErrTransientConflict, Code: response.CodeConflict, Key: "error.order_conflict"},
}

// 删除时回补库存的商品已不存在会整体回滚，订单保持原状
var orderDeleteErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeConflict, Key: "error.restock_product_missing"},
	{Target: service.ErrTransientConflict, Code: response.CodeConflict, Key: "error.order_conflict"},
}
