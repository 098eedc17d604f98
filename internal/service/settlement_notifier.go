package service

import (
	"context"
	"time"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/events"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/metrics"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/queue"
)

// SettlementNotifier 事务提交后的副作用：指标、事件推送与自动结算任务。
// 副作用失败只记录日志，不影响已提交的结果
type SettlementNotifier struct {
	publisher       events.Publisher
	queueClient     *queue.Client
	autoSettleDelay time.Duration
}

// NewSettlementNotifier 创建通知器，autoSettleDelay <= 0 表示不自动结算
func NewSettlementNotifier(publisher events.Publisher, queueClient *queue.Client, autoSettleDelay time.Duration) *SettlementNotifier {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &SettlementNotifier{
		publisher:       publisher,
		queueClient:     queueClient,
		autoSettleDelay: autoSettleDelay,
	}
}

// OrderPaid 订单支付成功
func (n *SettlementNotifier) OrderPaid(ctx context.Context, order *models.Order, txn *models.CustomerTransaction) {
	if n == nil || order == nil {
		return
	}
	method := CanonicalTransactionMethod(order.PaymentMethod)
	metrics.ObserveSettledAmount(order.Currency, method, order.Total.InexactFloat64())

	n.publish(ctx, buildOrderEvent(order, constants.EventOrderPaid))

	if txn == nil || n.autoSettleDelay <= 0 || !n.queueClient.Enabled() {
		return
	}
	payload := queue.TransactionAutoSettlePayload{TransactionID: txn.ID, OrderID: order.ID}
	if err := n.queueClient.EnqueueTransactionAutoSettle(payload, n.autoSettleDelay); err != nil {
		logger.Warnw("settlement_enqueue_auto_settle_failed",
			"order_id", order.ID,
			"transaction_id", txn.ID,
			"error", err,
		)
	}
}

// OrderStatusChanged 订单完成或取消
func (n *SettlementNotifier) OrderStatusChanged(ctx context.Context, order *models.Order, eventType string) {
	if n == nil || order == nil {
		return
	}
	n.publish(ctx, buildOrderEvent(order, eventType))
}

func (n *SettlementNotifier) publish(ctx context.Context, event events.Event) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		logger.Warnw("settlement_event_publish_failed",
			"order_id", event.OrderID,
			"event_type", event.Type,
			"error", err,
		)
	}
}

func buildOrderEvent(order *models.Order, eventType string) events.Event {
	event := events.Event{
		Type:          eventType,
		OrderID:       order.ID,
		RestaurantID:  order.RestaurantID,
		TransactionID: order.TransactionID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Amount:        order.Total.String(),
		Currency:      order.Currency,
		OccurredAt:    time.Now(),
	}
	if order.PaidAt != nil && eventType == constants.EventOrderPaid {
		event.OccurredAt = *order.PaidAt
	}
	return event
}
