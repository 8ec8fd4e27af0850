package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/kafka"
	"github.com/Domenick1991/boatbooking/internal/rabbitmq"
)

const (
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

type connectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// BrokerHealth returns the publisher's connectivity check for the health
// endpoint, or nil when events are off or the driver has no such check.
func BrokerHealth(p Publisher) func(context.Context) error {
	checker, ok := p.(connectionChecker)
	if !ok {
		return nil
	}
	return checker.CheckConnection
}

type Subscriber interface {
	Consume(ctx context.Context, handler func(context.Context, domain.BookingEvent) error) error
	Close() error
}

// NewPublisher returns the broker writer selected by events.driver, or nil
// when events are disabled.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.Events.Driver {
	case DriverKafka:
		return kafka.NewProducer(cfg.Kafka.Brokers), nil
	case DriverRabbitMQ:
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		return pub, nil
	case DriverNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
	}
}

// NewSubscriber returns the broker reader for the booking topic, or nil when
// events are disabled.
func NewSubscriber(cfg *config.Config) (Subscriber, error) {
	switch cfg.Events.Driver {
	case DriverKafka:
		return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Events.BookingTopic), nil
	case DriverRabbitMQ:
		return rabbitmq.NewConsumer(cfg.RabbitMQ.URL, cfg.Events.BookingTopic), nil
	case DriverNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
	}
}
