package shared

import (
	"errors"
	"sync"

	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators 向 gin 的校验引擎注册自定义标签：
// order_status 只接受已知订单状态
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		validatorsErr = engine.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return service.IsKnownOrderStatus(fl.Field().String())
		})
	})
	return validatorsErr
}

// ValidationFields 提取校验失败的字段名，写入 400 响应的 data 方便前端定位
func ValidationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// RespondBindError 请求体解析或校验失败统一返回 400
func RespondBindError(c *gin.Context, err error) {
	RequestLog(c).Debugw("request_body_invalid", "fields", ValidationFields(err), "error", err)
	RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
}
