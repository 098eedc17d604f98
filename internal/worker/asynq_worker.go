package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/provider"
	"github.com/triaxx-pos/internal/queue"
	"github.com/triaxx-pos/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskTransactionAutoSettle, c.handleTransactionAutoSettle)
}

// handleTransactionAutoSettle 到期后把成功流水标记为已结算；载荷错误不重试
func (c *Consumer) handleTransactionAutoSettle(_ context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.TransactionService == nil || task == nil {
		logger.Debugw("worker_auto_settle_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseTransactionAutoSettlePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_auto_settle_payload_invalid", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	settled, err := c.TransactionService.MarkSettled(payload.TransactionID)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			logger.Debugw("worker_auto_settle_skip_missing", "transaction_id", payload.TransactionID)
			return nil
		}
		logger.Warnw("worker_auto_settle_failed",
			"transaction_id", payload.TransactionID,
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_auto_settle_done",
		"transaction_id", payload.TransactionID,
		"order_id", payload.OrderID,
		"settled", settled,
	)
	return nil
}
