package queue

import (
	"encoding/json"

	"github.com/amineweldmaryem/boutique/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCreated 下单后扣减库存任务
	TaskOrderCreated = constants.TaskOrderCreated
)

// OrderCreatedPayload 下单任务载荷
type OrderCreatedPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderCreatedTask 创建下单任务
func NewOrderCreatedTask(payload OrderCreatedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCreated, body), nil
}

// ParseOrderCreatedPayload 解析下单任务载荷
func ParseOrderCreatedPayload(task *asynq.Task) (OrderCreatedPayload, error) {
	var payload OrderCreatedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
