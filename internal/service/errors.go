package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusInvalid  = errors.New("order status invalid")
	ErrOrderTransitInvalid = errors.New("order status transition not allowed")
	ErrOrderItemInvalid    = errors.New("order item invalid")
	ErrOrderCreateFailed   = errors.New("order create failed")
	ErrOrderUpdateFailed   = errors.New("order update failed")
	ErrOrderDeleteFailed   = errors.New("order delete failed")
	ErrOrderFetchFailed    = errors.New("order fetch failed")
)

// 商品相关错误
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrColorVariantNotFound = errors.New("color variant not found")
	ErrProductFetchFailed   = errors.New("product fetch failed")
)

// 事务与统计相关错误
var (
	// ErrTransientConflict 并发写入冲突且重试次数耗尽，调用方可稍后重试
	ErrTransientConflict    = errors.New("transient write conflict, please retry")
	ErrAnalyticsFetchFailed = errors.New("sales analytics fetch failed")
	ErrAnalyticsResetFailed = errors.New("sales analytics reset failed")
	ErrMaintenanceDisabled  = errors.New("maintenance actions disabled")
)

// 身份相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("identity token invalid")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrProfileInvalid     = errors.New("profile invalid")
)
