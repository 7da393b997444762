package shared

// messages 错误键到对外提示的映射；未登记的键原样返回
var messages = map[string]string{
	"error.bad_request":             "bad request",
	"error.unauthorized":            "unauthorized",
	"error.forbidden":               "forbidden",
	"error.too_many_requests":       "too many requests, please retry later",
	"error.internal":                "internal server error",
	"error.not_found":               "not found",
	"error.login_invalid":           "invalid username or password",
	"error.token_invalid":           "identity token invalid or expired",
	"error.order_not_found":         "order not found",
	"error.order_status_invalid":    "unknown order status",
	"error.order_transit_invalid":   "order status transition not allowed",
	"error.order_item_invalid":      "order items invalid",
	"error.order_create_failed":     "failed to create order",
	"error.order_update_failed":     "failed to update order",
	"error.order_delete_failed":     "failed to delete order",
	"error.order_fetch_failed":      "failed to fetch orders",
	"error.order_conflict":          "order was modified concurrently, please retry",
	"error.product_not_found":       "product not found",
	"error.color_variant_not_found": "color variant not found",
	"error.product_fetch_failed":    "failed to fetch products",
	"error.restock_product_missing": "a product referenced by this order no longer exists",
	"error.analytics_fetch_failed":  "failed to fetch sales analytics",
	"error.analytics_reset_failed":  "failed to reset sales analytics",
	"error.maintenance_disabled":    "maintenance actions are disabled",
	"error.profile_invalid":         "profile invalid",
	"error.profile_fetch_failed":    "failed to fetch profile",
	"error.profile_not_found":       "profile not found",
}

// Message 解析错误键
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
