package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rabbitmq/amqp091-go"

	"delivery-mitra-service/internal/ports"
)

// AMQPStatusPublisher publishes order status transitions as persistent JSON
// messages on a topic exchange. Routing key: order.status.<status>, with
// the status lowercased and spaces collapsed to underscores
// (e.g. order.status.out_for_delivery).
type AMQPStatusPublisher struct {
	ch       *amqp091.Channel
	exchange string
}

func NewAMQPStatusPublisher(conn *amqp091.Connection, exchange string) (*AMQPStatusPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp publisher: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("amqp publisher: declare exchange %q: %w", exchange, err)
	}

	return &AMQPStatusPublisher{ch: ch, exchange: exchange}, nil
}

func (p *AMQPStatusPublisher) PublishStatus(ctx context.Context, ev ports.OrderStatusEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("publish status: marshal event: %w", err)
	}

	key := "order.status." + strings.ReplaceAll(strings.ToLower(ev.Status), " ", "_")

	pub := amqp091.Publishing{
		DeliveryMode:  amqp091.Persistent,
		ContentType:   "application/json",
		Body:          body,
		CorrelationId: strconv.Itoa(ev.OrderID),
		Timestamp:     ev.OccurredAt,
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, pub); err != nil {
		return fmt.Errorf("publish status: %w", err)
	}
	return nil
}

func (p *AMQPStatusPublisher) Close() error {
	return p.ch.Close()
}
