package public

import "github.com/amineweldmaryem/boutique/internal/provider"

// Handler 商品目录匿名可读，/me 与 /orders 需要顾客令牌
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler { return &Handler{Container: c} }
