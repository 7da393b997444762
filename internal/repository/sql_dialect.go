package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgres(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// jsonArrayFieldMatchCondition 构建“JSON 对象数组中存在某字段等于 ? 的元素”条件
// 例如按颜色名过滤 colors 列。
func jsonArrayFieldMatchCondition(dialect, column, field string) string {
	if isPostgres(dialect) {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements(%s::jsonb) AS elem WHERE elem ->> '%s' = ?)", column, field)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_extract(json_each.value, '$.%s') = ?)", column, field)
}

// jsonArrayContainsCondition 构建“JSON 字符串数组包含 ?”条件，例如按尺码过滤 sizes 列。
func jsonArrayContainsCondition(dialect, column string) string {
	if isPostgres(dialect) {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s::jsonb) AS elem WHERE elem = ?)", column)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column)
}

// likeCondition 构建多列 LIKE 条件，并返回参数数量。
func likeCondition(dialect string, columns ...string) (string, int) {
	operator := "LIKE"
	if isPostgres(dialect) {
		operator = "ILIKE"
	}
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
