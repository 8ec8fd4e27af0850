// Package rabbitmq publishes and consumes booking events over durable RabbitMQ queues.
// It is the alternative to the Kafka transport, selected with events.driver.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Publisher struct {
	url  string
	dial func(url string) (*amqp.Connection, error)

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url, dial: amqp.Dial, declared: map[string]bool{}}
	if err := p.CheckConnection(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish sends payload as a persistent JSON message to the durable queue named topic.
// A channel or connection lost to a broker restart is reopened on the next call.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	pub, err := newPublishing(key, payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	if !p.declared[topic] {
		if _, err := p.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			p.dropChannel()
			return fmt.Errorf("queue declare %s: %w", topic, err)
		}
		p.declared[topic] = true
	}

	if err := p.ch.PublishWithContext(ctx, "", topic, false, false, pub); err != nil {
		p.dropChannel()
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// CheckConnection reopens the connection and channel if needed.
func (p *Publisher) CheckConnection(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ensureChannel()
}

// ensureChannel must be called with mu held.
func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.dropChannel()

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := p.dial(p.url)
		if err != nil {
			p.conn = nil
			return fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return fmt.Errorf("open channel: %w", err)
	}
	p.ch = ch
	return nil
}

// dropChannel forgets the current channel; queues are declared again on the
// next one.
func (p *Publisher) dropChannel() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	p.declared = map[string]bool{}
}

func newPublishing(key string, payload any) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropChannel()
	if p.conn == nil || p.conn.IsClosed() {
		p.conn = nil
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

type Consumer struct {
	url   string
	queue string
}

func NewConsumer(url, queue string) *Consumer {
	return &Consumer{url: url, queue: queue}
}

// Close is a no-op: every connection is closed when Consume returns.
func (c *Consumer) Close() error { return nil }

// Consume reconnects with backoff until ctx is done.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, domain.BookingEvent) error) error {
	backoff := time.Second
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithError(err).WithField("retry_in", backoff.String()).Warn("rabbitmq consumer disconnected")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context, handler func(context.Context, domain.BookingEvent) error) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("rabbitmq: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ch.Close()
		case <-stop:
		}
	}()

	for d := range deliveries {
		handleDelivery(ctx, d, handler)
	}
	return errors.New("deliveries channel closed")
}

// handleDelivery acks processed messages and rejects the rest without requeueing.
func handleDelivery(ctx context.Context, d amqp.Delivery, handler func(context.Context, domain.BookingEvent) error) {
	var event domain.BookingEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logrus.WithError(err).Warn("rabbitmq: undecodable booking event")
		_ = d.Nack(false, false)
		return
	}
	if err := handler(ctx, event); err != nil {
		logrus.WithError(err).WithField("booking_id", event.BookingID).Warn("rabbitmq: handle booking event failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
