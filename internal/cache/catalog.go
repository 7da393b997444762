package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogGenerationKey = "catalog:gen"

// 商品目录缓存按“代”失效：任何库存写入都会推进代号，旧代的键自然过期。
// 这样不需要枚举带过滤参数的列表键。
//
// 键在读库之前解析一次，回写沿用同一个键。读库期间若代号被推进，
// 回写落在旧代，下一次请求直接未命中。

// Catalog 目录缓存的读写入口，零值可用
type Catalog struct{}

func catalogGeneration(ctx context.Context) (int64, error) {
	gen, err := std.client.Get(ctx, buildKey(catalogGenerationKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func catalogKeyAt(gen int64, name string) string {
	return fmt.Sprintf("catalog:%d:%s", gen, name)
}

// Key 解析当前代的缓存键；缓存关闭时返回空串
func (Catalog) Key(ctx context.Context, name string) (string, error) {
	if !Enabled() {
		return "", nil
	}
	gen, err := catalogGeneration(ctx)
	if err != nil {
		return "", err
	}
	return catalogKeyAt(gen, name), nil
}

// Get 按已解析的键读取
func (Catalog) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if key == "" {
		return false, nil
	}
	return GetJSON(ctx, key, dest)
}

// Set 按已解析的键写入
func (Catalog) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	return SetJSON(ctx, key, value, ttl)
}

// InvalidateCatalog 推进目录缓存代号
func InvalidateCatalog(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return std.client.Incr(ctx, buildKey(catalogGenerationKey)).Err()
}
