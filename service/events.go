package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "crm.events"

	EventLeadCreated       = "lead.created"
	EventLeadStatusChanged = "lead.status_changed"
	EventLeadsImported     = "lead.imported"
	EventChatMessage       = "chat.message_created"
)

// Event 领域事件
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher 未配置消息队列时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// RabbitMQPublisher 发布到 topic 交换机，路由键为事件类型
type RabbitMQPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// NewRabbitMQPublisher 连接RabbitMQ并声明交换机
func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开通道失败: %w", err)
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明交换机失败: %w", err)
	}

	utils.Logger.Info().Str("exchange", EventsExchange).Msg("已连接到RabbitMQ")
	return &RabbitMQPublisher{conn: conn, ch: ch}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		EventsExchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
}

func (p *RabbitMQPublisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// publishEvent 发送事件，失败只记录日志
func publishEvent(ctx context.Context, publisher EventPublisher, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	event := Event{Type: eventType, OccurredAt: time.Now(), Data: data}
	if err := publisher.Publish(ctx, event); err != nil {
		metrics.RecordIntegrationError("amqp")
		utils.Logger.Warn().Err(err).Str("event", eventType).Msg("发布事件失败")
	}
}
