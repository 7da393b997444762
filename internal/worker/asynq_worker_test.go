package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/amineweldmaryem/boutique/internal/queue"
	"github.com/amineweldmaryem/boutique/internal/service"

	"github.com/hibiken/asynq"
)

type fakeOrderCreated struct {
	calls  []uint
	result *service.StockBatchResult
	err    error
}

func (f *fakeOrderCreated) HandleOrderCreated(_ context.Context, orderID uint) (*service.StockBatchResult, error) {
	f.calls = append(f.calls, orderID)
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &service.StockBatchResult{}, nil
	}
	return f.result, nil
}

func TestHandleOrderCreatedDecrements(t *testing.T) {
	fake := &fakeOrderCreated{result: &service.StockBatchResult{Updated: []uint{3}}}
	consumer := &Consumer{orders: fake}
	task, err := queue.NewOrderCreatedTask(queue.OrderCreatedPayload{OrderID: 11})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderCreated(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != 11 {
		t.Fatalf("want one call for order 11 got %v", fake.calls)
	}
}

func TestHandleOrderCreatedPropagatesFailureForRetry(t *testing.T) {
	boom := errors.New("db down")
	consumer := &Consumer{orders: &fakeOrderCreated{err: boom}}
	task, _ := queue.NewOrderCreatedTask(queue.OrderCreatedPayload{OrderID: 2})
	if err := consumer.handleOrderCreated(context.Background(), task); !errors.Is(err, boom) {
		t.Fatalf("want db error got %v", err)
	}
}

func TestHandleOrderCreatedBadPayloadSkipsRetry(t *testing.T) {
	fake := &fakeOrderCreated{}
	consumer := &Consumer{orders: fake}
	err := consumer.handleOrderCreated(context.Background(), asynq.NewTask(queue.TaskOrderCreated, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("handler must not be invoked on bad payload")
	}
}

func TestHandleOrderCreatedIgnoresZeroOrder(t *testing.T) {
	fake := &fakeOrderCreated{}
	consumer := &Consumer{orders: fake}
	task, _ := queue.NewOrderCreatedTask(queue.OrderCreatedPayload{})
	if err := consumer.handleOrderCreated(context.Background(), task); err != nil {
		t.Fatalf("want nil got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("zero order id must be skipped")
	}
}
