package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/triaxx-pos/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event 结算领域事件，routing key 为事件类型
type Event struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	RestaurantID  uint      `json:"restaurant_id"`
	TransactionID *uint     `json:"transaction_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher 未启用事件推送时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close 无需释放
func (NoopPublisher) Close() error { return nil }

// AMQPPublisher 基于 RabbitMQ topic 交换机的发布者
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher 根据配置创建发布者，未启用时返回 NoopPublisher
func NewPublisher(cfg *config.EventsConfig) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	exchange := strings.TrimSpace(cfg.Exchange)
	if exchange == "" {
		return nil, errors.New("events exchange is empty")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish 以持久化消息发布事件
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		event.Type,
		false, // mandatory
		false, // immediate
		msg,
	)
}

// Close 关闭通道与连接
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildPublishing(event Event) (amqp.Publishing, error) {
	if strings.TrimSpace(event.Type) == "" {
		return amqp.Publishing{}, errors.New("event type is empty")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
	}, nil
}
