package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "bq"

// store 进程内共享的 Redis 连接；client 为 nil 时缓存关闭，读写全部退化为空操作
type store struct {
	client *redis.Client
	prefix string
}

var std = &store{prefix: defaultPrefix}

// InitRedis 连接 Redis。启动时 ping 失败只记日志，不阻止服务启动
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		UseClient(nil, "")
		return nil
	}
	host, port := strings.TrimSpace(cfg.Host), cfg.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis_ping_failed", "addr", client.Options().Addr, "error", err)
	}
	UseClient(client, cfg.Prefix)
	return nil
}

// UseClient 替换共享连接，传 nil 关闭缓存
func UseClient(client *redis.Client, prefix string) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	std = &store{client: client, prefix: prefix}
}

func Enabled() bool { return std.client != nil }

// Client 缓存关闭时返回 nil，限流中间件据此放行
func Client() *redis.Client { return std.client }

func Close() error {
	if std.client == nil {
		return nil
	}
	return std.client.Close()
}

// GetJSON 未命中返回 false 且不报错
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := std.client.Get(ctx, buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return std.client.Set(ctx, buildKey(key), raw, ttl).Err()
}

func buildKey(key string) string {
	if key = strings.TrimSpace(key); key == "" {
		return std.prefix
	}
	return std.prefix + ":" + key
}
