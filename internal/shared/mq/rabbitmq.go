package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/models"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

// Event is the body of every message published on the topic exchange.
type Event struct {
	Entity     string    `json:"entity"`
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	CustomerID string    `json:"customer_id"`
	RecyclerID string    `json:"recycler_id,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RoutingKey is "<entity>.status.<status>".
func (e Event) RoutingKey() string {
	return fmt.Sprintf("%s.status.%s", e.Entity, e.Status)
}

type Publisher struct {
	ch       *amqp091.Channel
	exchange string
}

func NewPublisher(ch *amqp091.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

func ConnectToRMQ(cfg *models.RabbitMQConfig, logger *util.Logger) (*amqp091.Connection, *amqp091.Channel, error) {
	var (
		conn *amqp091.Connection
		ch   *amqp091.Channel
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(cfg.URL)
		if err == nil {
			ch, err = conn.Channel()
			if err == nil {
				return conn, ch, nil
			}
			conn.Close()
		}
		logger.Warn("RabbitMQ", fmt.Sprintf("not ready, retrying... (%d/10)", i+1))
		time.Sleep(3 * time.Second)
	}

	return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
}

// DeclareTopology declares the topic exchange and, if queue is not empty, a
// durable queue bound to it with the given routing patterns.
func DeclareTopology(ch *amqp091.Channel, exchange, queue string, patterns ...string) error {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if queue == "" {
		return nil
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	for _, p := range patterns {
		if err := ch.QueueBind(queue, p, exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", queue, p, err)
		}
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) PublishEvent(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.Publish(ctx, event.RoutingKey(), body)
}
