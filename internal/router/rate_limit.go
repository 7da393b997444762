package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/amineweldmaryem/boutique/internal/http/handlers/shared"
	"github.com/amineweldmaryem/boutique/internal/http/response"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中取限流维度，返回空串时按 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口计数：Window 内超过 MaxRequests 次返回 429
type RateLimitRule struct {
	Prefix      string
	Window      time.Duration
	MaxRequests int64
	MessageKey  string
}

func (r RateLimitRule) active() bool { return r.Window >= time.Second && r.MaxRequests > 0 }

// RateLimitMiddleware client 为 nil 或 Redis 出错时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if rule.MessageKey == "" {
		rule.MessageKey = "error.too_many_requests"
	}
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}
		key := c.ClientIP()
		if keyFunc != nil {
			if k := strings.TrimSpace(keyFunc(c)); k != "" {
				key = k
			}
		}
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + key
		}

		count, ttl, err := countHit(c.Request.Context(), client, key, rule.Window)
		if err != nil {
			handlershared.RequestLog(c).Warnw("rate_limit_unavailable", "prefix", rule.Prefix, "error", err)
			c.Next()
			return
		}
		if count <= rule.MaxRequests {
			c.Next()
			return
		}
		if ttl < time.Second {
			ttl = rule.Window
		}
		c.Header("Retry-After", strconv.Itoa(int(ttl/time.Second)))
		handlershared.RespondError(c, response.CodeTooManyRequests, rule.MessageKey, nil)
	}
}

// countHit 计数加一，只在窗口首次命中时设置过期
func countHit(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

func KeyByIP(c *gin.Context) string { return c.ClientIP() }

// KeyByIdentity 已登录按 uid，匿名按 IP
func KeyByIdentity(c *gin.Context) string {
	if value, ok := c.Get(handlershared.IdentityKey); ok {
		if identity, ok := value.(*service.Identity); ok && identity != nil && identity.UID != "" {
			return "uid:" + identity.UID
		}
	}
	return c.ClientIP()
}

// KeyByIPAndJSONField 登录接口按 用户名|IP 限流，读取后请求体原样放回
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return ""
	}
	var value string
	if json.Unmarshal(fields[field], &value) != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
