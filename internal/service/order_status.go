package service

import (
	"strings"

	"github.com/amineweldmaryem/boutique/internal/constants"
)

// orderTransitions 允许的状态流转；delivered / cancelled / refunded 为终态
var orderTransitions = map[string][]string{
	constants.OrderStatusPending: {
		constants.OrderStatusPaid,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
		constants.OrderStatusRefunded,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered,
		constants.OrderStatusRefunded,
	},
	constants.OrderStatusDelivered: nil,
	constants.OrderStatusCancelled: nil,
	constants.OrderStatusRefunded:  nil,
}

// normalizeOrderStatus 规范化状态值，未知状态返回空串
func normalizeOrderStatus(status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if _, ok := orderTransitions[normalized]; !ok {
		return ""
	}
	return normalized
}

// canTransitOrderStatus 同状态更新始终允许（幂等）
func canTransitOrderStatus(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// parseStatusFilter 解析逗号分隔的状态过滤参数，忽略未知状态
func parseStatusFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, part := range parts {
		if status := normalizeOrderStatus(part); status != "" {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

// IsKnownOrderStatus 供请求校验使用，大小写不敏感
func IsKnownOrderStatus(status string) bool {
	return normalizeOrderStatus(status) != ""
}
