package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	infraevents "github.com/paysync/server/internal/infra/events"
	"github.com/paysync/server/internal/shared/config"
	"github.com/paysync/server/internal/shared/events"
)

// Broker routing keys for the trigger events this service consumes.
const (
	RouteAccountCreated  = "account.created"
	RouteAccountDeleted  = "account.deleted"
	RouteChargeRequested = "charge.requested"
	RouteSourceWritten   = "source.written"
)

// Consumer bridges the broker to the in-process event bus. Each delivery
// is decoded into a typed event and dispatched; the delivery is acked on
// success and requeued when a handler fails, which is the retry mechanism
// provision/cleanup failures rely on.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	tag     string
	bus     *infraevents.Bus
	logger  *zap.Logger
	done    chan struct{}
}

// NewConsumer connects to the broker and declares the topology: a durable
// topic exchange, one durable queue, and a binding per routing key.
func NewConsumer(cfg config.RabbitConfig, bus *infraevents.Bus, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", cfg.Exchange, err)
	}

	queue, err := channel.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.Queue, err)
	}

	routes := []string{RouteAccountCreated, RouteAccountDeleted, RouteChargeRequested, RouteSourceWritten}
	for _, route := range routes {
		if err := channel.QueueBind(queue.Name, route, cfg.Exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("bind %q to %q: %w", queue.Name, route, err)
		}
	}

	// One in-flight delivery per consumer; handlers are short remote-call
	// sequences and each invocation is scoped to one account.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   queue.Name,
		tag:     consumerTag(queue.Name),
		bus:     bus,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// consumerTag derives the tag Consume registers under, so Close can
// cancel that exact consumer instead of a broker-generated one.
func consumerTag(queue string) string {
	return queue + ".consumer"
}

// Start begins consuming deliveries until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %q: %w", c.queue, err)
	}

	go func() {
		defer close(c.done)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				c.handle(ctx, d)
			}
		}
	}()

	c.logger.Info("consuming trigger events", zap.String("queue", c.queue))
	return nil
}

// handle decodes and dispatches one delivery.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	event, err := DecodeEvent(d.RoutingKey, d.Body)
	if err != nil {
		// Malformed payloads cannot succeed on redelivery; drop them.
		c.logger.Error("dropping undecodable delivery",
			zap.String("routing_key", d.RoutingKey),
			zap.Error(err),
		)
		if err := d.Ack(false); err != nil {
			c.logger.Error("ack failed", zap.Error(err))
		}
		return
	}

	if err := c.bus.Publish(ctx, event); err != nil {
		if err := d.Nack(false, true); err != nil {
			c.logger.Error("nack failed", zap.Error(err))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.Error("ack failed", zap.Error(err))
	}
}

// Close stops the consumer and closes the broker connection.
func (c *Consumer) Close() error {
	if err := c.channel.Cancel(c.tag, false); err != nil {
		c.logger.Warn("cancel consumer", zap.Error(err))
	}
	<-c.done
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// accountPayload is the body of account lifecycle messages from the
// identity service.
type accountPayload struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// chargePayload is the body of charge request messages.
type chargePayload struct {
	AccountID string  `json:"account_id"`
	ChargeID  string  `json:"charge_id"`
	Amount    int64   `json:"amount"`
	Source    *string `json:"source"`
}

// sourcePayload is the body of source token write messages.
type sourcePayload struct {
	AccountID string  `json:"account_id"`
	SourceID  string  `json:"source_id"`
	Token     *string `json:"token"`
}

// DecodeEvent maps a broker message onto a typed trigger event.
func DecodeEvent(routingKey string, body []byte) (events.Event, error) {
	switch routingKey {
	case RouteAccountCreated:
		var p accountPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if p.UID == "" {
			return nil, fmt.Errorf("decode %s: missing uid", routingKey)
		}
		return events.NewAccountCreatedEvent(p.UID, p.Email), nil

	case RouteAccountDeleted:
		var p accountPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if p.UID == "" {
			return nil, fmt.Errorf("decode %s: missing uid", routingKey)
		}
		return events.NewAccountDeletedEvent(p.UID), nil

	case RouteChargeRequested:
		var p chargePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if p.AccountID == "" || p.ChargeID == "" {
			return nil, fmt.Errorf("decode %s: missing account_id or charge_id", routingKey)
		}
		return events.NewChargeRequestedEvent(p.AccountID, p.ChargeID, p.Amount, p.Source), nil

	case RouteSourceWritten:
		var p sourcePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if p.AccountID == "" || p.SourceID == "" {
			return nil, fmt.Errorf("decode %s: missing account_id or source_id", routingKey)
		}
		return events.NewSourceWrittenEvent(p.AccountID, p.SourceID, p.Token), nil

	default:
		return nil, fmt.Errorf("unknown routing key %q", routingKey)
	}
}
