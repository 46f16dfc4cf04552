package amqp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/internal/utils"
	"github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp091.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher forwards event bus traffic to a durable topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	prefix   string
	clock    utils.Clock
}

// Dial connects to the broker configured in cfg and declares the exchange.
func Dial(cfg config.AMQP) (*Publisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	publisher, err := NewPublisher(channel, cfg.Exchange, cfg.RoutingPrefix)
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher.conn = conn
	return publisher, nil
}

func NewPublisher(channel Channel, exchange, prefix string) (*Publisher, error) {
	if exchange == "" {
		return nil, errors.New("amqp exchange must not be empty")
	}
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{channel: channel, exchange: exchange, prefix: prefix, clock: utils.SystemClock{}}, nil
}

// Subscribe forwards ResourceChanged and ReportGenerated events until the returned function is called.
func (p *Publisher) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubChanged := event_bus.SubscribeTyped[event_bus.ResourceChanged](bus, event_bus.ResourceChangedType,
		func(e event_bus.EventT[event_bus.ResourceChanged]) error {
			return p.PublishResourceChanged(e.Context(), e.Data)
		})
	unsubReport := event_bus.SubscribeTyped[event_bus.ReportGenerated](bus, event_bus.ReportGeneratedType,
		func(e event_bus.EventT[event_bus.ReportGenerated]) error {
			return p.PublishReportGenerated(e.Context(), e.Data)
		})
	return func() {
		unsubChanged()
		unsubReport()
	}
}

func (p *Publisher) PublishResourceChanged(ctx context.Context, e event_bus.ResourceChanged) error {
	body, err := NewResourceChangedMessage(e, p.clock.Now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.publish(ctx, p.routingKey(e.Resource, string(e.Action)), body)
}

func (p *Publisher) PublishReportGenerated(ctx context.Context, e event_bus.ReportGenerated) error {
	body, err := NewReportGeneratedMessage(e, p.clock.Now()).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.publish(ctx, p.routingKey("report", e.Kind), body)
}

func (p *Publisher) publish(ctx context.Context, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    p.clock.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	log.Debugf("published %s to exchange %s", key, p.exchange)
	return nil
}

func (p *Publisher) routingKey(parts ...string) string {
	key := p.prefix
	for _, part := range parts {
		if key != "" {
			key += "."
		}
		key += part
	}
	return key
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
