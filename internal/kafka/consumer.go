package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume feeds booking events to handler until ctx is done or the reader
// fails. Undecodable messages and handler failures are logged and skipped;
// the group offset moves past them either way.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, domain.BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		handleMessage(ctx, msg, handler)
	}
}

// handleMessage reports whether handler processed the event.
func handleMessage(ctx context.Context, msg kafka.Message, handler func(context.Context, domain.BookingEvent) error) bool {
	log := logrus.WithFields(logrus.Fields{"partition": msg.Partition, "offset": msg.Offset})

	event, err := DecodeBookingEvent(msg)
	if err != nil {
		log.WithError(err).Warn("skipping undecodable booking event")
		return false
	}
	if err := handler(ctx, event); err != nil {
		log.WithError(err).WithField("booking_id", event.BookingID).Error("handle booking event failed")
		return false
	}
	return true
}

func DecodeBookingEvent(msg kafka.Message) (domain.BookingEvent, error) {
	var event domain.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return domain.BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	return event, nil
}
