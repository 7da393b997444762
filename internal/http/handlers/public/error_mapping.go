package public

import (
	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"
)

var orderCreateErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderItemInvalid, Code: response.CodeBadRequest, Key: "error.order_item_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeBadRequest, Key: "error.product_not_found"},
	{Target: service.ErrColorVariantNotFound, Code: response.CodeBadRequest, Key: "error.color_variant_not_found"},
}

var orderFetchErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
}

var productFetchErrorRules = []handlershared.MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}
