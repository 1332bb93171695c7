// Package consumer feeds status events from RabbitMQ into notifications.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type EventHandler interface {
	HandleEvent(ctx context.Context, ev mq.Event) error
}

type StatusConsumer struct {
	handler EventHandler
	channel *amqp.Channel
	queue   string
	logger  *util.Logger
}

func NewStatusConsumer(handler EventHandler, ch *amqp.Channel, queue string, logger *util.Logger) *StatusConsumer {
	return &StatusConsumer{
		handler: handler,
		channel: ch,
		queue:   queue,
		logger:  logger,
	}
}

// Start consumes until ctx is cancelled or the channel closes. It returns
// once the consumer is registered.
func (c *StatusConsumer) Start(ctx context.Context) error {
	if err := c.channel.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false, // manual acknowledgment
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("StatusConsumer", "delivery channel closed")
					return
				}
				c.Handle(ctx, msg)
			}
		}
	}()
	c.logger.Info("StatusConsumer", c.queue+" consumer started")
	return nil
}

// Handle acknowledges msg according to the outcome: malformed events are
// dropped, storage failures requeued.
func (c *StatusConsumer) Handle(ctx context.Context, msg amqp.Delivery) {
	instance := "StatusConsumer.Handle"

	var ev mq.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		c.logger.Warn(instance, fmt.Sprintf("invalid JSON on %s: %v", msg.RoutingKey, err))
		msg.Nack(false, false)
		return
	}

	if err := c.handler.HandleEvent(ctx, ev); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.logger.Warn(instance, err.Error())
			msg.Nack(false, false)
			return
		}
		c.logger.Error(instance, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}
