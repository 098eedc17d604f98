package queue

import (
	"encoding/json"
	"fmt"

	"github.com/triaxx-pos/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskTransactionAutoSettle 流水自动结算任务
	TaskTransactionAutoSettle = constants.TaskTransactionAutoSettle
)

// TransactionAutoSettlePayload 流水自动结算任务载荷
type TransactionAutoSettlePayload struct {
	TransactionID uint `json:"transaction_id"`
	OrderID       uint `json:"order_id"`
}

// NewTransactionAutoSettleTask 创建流水自动结算任务
func NewTransactionAutoSettleTask(payload TransactionAutoSettlePayload) (*asynq.Task, error) {
	if payload.TransactionID == 0 {
		return nil, fmt.Errorf("transaction id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTransactionAutoSettle, body), nil
}

// ParseTransactionAutoSettlePayload 解析任务载荷
func ParseTransactionAutoSettlePayload(body []byte) (TransactionAutoSettlePayload, error) {
	var payload TransactionAutoSettlePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if payload.TransactionID == 0 {
		return payload, fmt.Errorf("transaction id is required")
	}
	return payload, nil
}
