package logger

import (
	"context"

	"go.uber.org/zap"
)

type fieldsKey struct{}

// WithContext 追加日志字段（request_id、uid、order_id 等），下游 FromContext 自动带上
func WithContext(ctx context.Context, kv ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	prev, _ := ctx.Value(fieldsKey{}).([]interface{})
	fields := make([]interface{}, 0, len(prev)+len(kv))
	fields = append(append(fields, prev...), kv...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return S()
	}
	if fields, _ := ctx.Value(fieldsKey{}).([]interface{}); len(fields) > 0 {
		return S().With(fields...)
	}
	return S()
}

func Debugw(msg string, kv ...interface{}) { S().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { S().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { S().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { S().Errorw(msg, kv...) }
