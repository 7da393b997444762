package worker

import (
	"context"
	"fmt"

	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/provider"
	"github.com/amineweldmaryem/boutique/internal/queue"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/hibiken/asynq"
)

// orderCreatedHandler 下单任务的业务处理
type orderCreatedHandler interface {
	HandleOrderCreated(ctx context.Context, orderID uint) (*service.StockBatchResult, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	orders orderCreatedHandler
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{orders: c.OrderService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderCreated, c.handleOrderCreated)
}

// handleOrderCreated 执行下单后的批量库存扣减。
// 返回错误会让 asynq 按 MaxRetry 重试；载荷无法解析时不再重试。
func (c *Consumer) handleOrderCreated(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.orders == nil || task == nil {
		logger.Debugw("worker_order_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderCreatedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_created_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_created_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	taskID, _ := asynq.GetTaskID(ctx)
	ctx = logger.WithContext(ctx, "task_id", taskID, "order_id", payload.OrderID)

	result, err := c.orders.HandleOrderCreated(ctx, payload.OrderID)
	if err != nil {
		logger.FromContext(ctx).Warnw("worker_order_created_decrement_failed", "error", err)
		return err
	}
	logger.FromContext(ctx).Infow("worker_order_created_stock_decremented",
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"variant_missing", result.VariantMissing,
	)
	return nil
}
