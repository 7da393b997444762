package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical
)

const (
	defaultMaxRetry       = 10
	defaultConcurrency    = 10
	defaultEnqueueTries   = 3
	defaultEnqueueBackoff = 200 * time.Millisecond
)

// Client 未启用队列时为零值客户端，所有方法都可安全调用
type Client struct {
	inner        *asynq.Client
	maxRetry     int
	enqueueTries int
	backoff      time.Duration
}

func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	c := &Client{
		inner:        asynq.NewClient(redisOpt(cfg)),
		maxRetry:     cfg.MaxRetry,
		enqueueTries: defaultEnqueueTries,
		backoff:      defaultEnqueueBackoff,
	}
	if c.maxRetry <= 0 {
		c.maxRetry = defaultMaxRetry
	}
	return c, nil
}

func (c *Client) Enabled() bool { return c != nil && c.inner != nil }

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// OrderCreatedTaskID 形如 order:created:<订单ID>
func OrderCreatedTaskID(orderID uint) string {
	return fmt.Sprintf("%s:%d", TaskOrderCreated, orderID)
}

// EnqueueOrderCreated 投递扣减任务。TaskID 取订单 ID，同一订单在任务保留期内只会入队一次，
// 重复投递视为成功，所以失败后可以放心重投
func (c *Client) EnqueueOrderCreated(ctx context.Context, payload OrderCreatedPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderCreatedTask(payload)
	if err != nil {
		return err
	}
	tries := max(c.enqueueTries, 1)
	for attempt := 1; ; attempt++ {
		_, err = c.inner.EnqueueContext(ctx, task,
			asynq.Queue(CriticalQueue),
			asynq.MaxRetry(c.maxRetry),
			asynq.TaskID(OrderCreatedTaskID(payload.OrderID)),
		)
		if err == nil || errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		if attempt >= tries {
			return fmt.Errorf("enqueue %s after %d attempts: %w", task.Type(), attempt, err)
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
}

// BuildServerConfig worker 端连接与并发配置，库存队列权重高于默认队列
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{CriticalQueue: 5, DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), cfg.Port
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
