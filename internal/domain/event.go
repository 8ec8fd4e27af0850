package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
	EventBookingDeleted = "booking_deleted"
)

// BookingEvent is the message published to the broker after a booking mutation.
type BookingEvent struct {
	ID            uuid.UUID     `json:"id"`
	Type          string        `json:"type"`
	BookingID     int64         `json:"booking_id"`
	BoatID        int64         `json:"boat_id"`
	BoatName      string        `json:"boat_name,omitempty"`
	Status        BookingStatus `json:"status"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	StartAt       time.Time     `json:"start_at"`
	EndAt         time.Time     `json:"end_at"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *Booking) BookingEvent {
	event := BookingEvent{
		ID:            uuid.New(),
		Type:          eventType,
		BookingID:     b.ID,
		BoatID:        b.BoatID,
		Status:        b.Status,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		OccurredAt:    time.Now().UTC(),
	}
	if b.Boat != nil {
		event.BoatName = b.Boat.Name
	}
	return event
}
