package public

import (
	"strings"

	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts 公开商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Category:     strings.TrimSpace(c.Query("category")),
		Color:        strings.TrimSpace(c.Query("color")),
		Size:         strings.TrimSpace(c.Query("size")),
		FeaturedOnly: c.Query("featured") == "true" || c.Query("featured") == "1",
		Search:       strings.TrimSpace(c.Query("search")),
	}
	var ok bool
	if filter.MinPrice, ok = parsePriceQuery(c, "min_price"); !ok {
		return
	}
	if filter.MaxPrice, ok = parsePriceQuery(c, "max_price"); !ok {
		return
	}

	result, err := h.ProductService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.NewPagination(page, pageSize, result.Total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handlershared.RespondWithMappedError(c, err, productFetchErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// ListColors 目录颜色列表
func (h *Handler) ListColors(c *gin.Context) {
	colors, err := h.ProductService.ListColors(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, colors)
}

func parsePriceQuery(c *gin.Context, key string) (*models.Money, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	value, err := models.ParseMoney(raw)
	if err != nil || value.IsNegative() {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return nil, false
	}
	return &value, true
}
