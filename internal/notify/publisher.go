// Package notify mirrors board events to a RabbitMQ fanout exchange so
// external consumers (printers, reporting, a second display) can follow the
// order flow without holding a websocket to the board.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/connections/rabbitmq"
	"kassenboard/internal/domain"
)

const Exchange = "orders_fanout"

const publishTTL = 5 * time.Second

type AMQPPublisher struct {
	client *rabbitmq.Client
	lg     *logger.Logger
}

// NewAMQPPublisher declares the fanout exchange (idempotent) and returns a
// publisher bound to it.
func NewAMQPPublisher(client *rabbitmq.Client, lg *logger.Logger) (*AMQPPublisher, error) {
	if err := client.Channel().ExchangeDeclare(Exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &AMQPPublisher{client: client, lg: lg}, nil
}

// Publish sends the event as a persistent JSON message. A broker failure is
// logged and swallowed; the board never degrades because the mirror is down.
func (p *AMQPPublisher) Publish(ctx context.Context, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"event": event})
		return
	}
	body, err := json.Marshal(domain.Envelope{Event: event, Data: raw})
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"event": event})
		return
	}

	pctx, cancel := context.WithTimeout(ctx, publishTTL)
	defer cancel()
	if err := p.client.Publish(pctx, Exchange, "", body); err != nil {
		p.lg.Error("event_publish_failed", err, map[string]any{"event": event})
	}
}

// Noop is wired when no RabbitMQ URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) {}
