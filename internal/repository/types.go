package repository

import (
	"time"

	"github.com/amineweldmaryem/boutique/internal/models"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	Category     string
	Color        string
	Size         string
	MinPrice     *models.Money
	MaxPrice     *models.Money
	FeaturedOnly bool
	Search       string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      string
	Statuses    []string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
