package admin

import "github.com/amineweldmaryem/boutique/internal/provider"

// Handler 后台接口。登录之外的路由挂在 IdentityAuth 与 AdminRBAC 之后
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler { return &Handler{Container: c} }
