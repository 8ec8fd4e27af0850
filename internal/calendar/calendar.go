// Package calendar turns bookings into events for the admin month view.
package calendar

import (
	"fmt"
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
)

type Style struct {
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	Color           string `json:"color"`
}

type Event struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Style    Style           `json:"style"`
	Resource *domain.Booking `json:"resource"`
}

const textColor = "#ffffff"

var styles = map[domain.BookingStatus]Style{
	domain.BookingStatusConfirmed:   {BackgroundColor: "#10b981", BorderColor: "#059669", Color: textColor},
	domain.BookingStatusProvisional: {BackgroundColor: "#f59e0b", BorderColor: "#d97706", Color: textColor},
	domain.BookingStatusCompleted:   {BackgroundColor: "#3b82f6", BorderColor: "#2563eb", Color: textColor},
	domain.BookingStatusCancelled:   {BackgroundColor: "#ef4444", BorderColor: "#dc2626", Color: textColor},
}

var defaultStyle = Style{BackgroundColor: "#6b7280", BorderColor: "#4b5563", Color: textColor}

func StyleFor(status domain.BookingStatus) Style {
	if s, ok := styles[status]; ok {
		return s
	}
	return defaultStyle
}

// Project maps bookings one to one onto calendar events. The calendar treats
// the end as exclusive, so the last booked day is kept visible by adding a day.
func Project(bookings []domain.Booking) []Event {
	events := make([]Event, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		events = append(events, Event{
			ID:       b.ID,
			Title:    title(b),
			Start:    b.StartAt,
			End:      b.EndAt.AddDate(0, 0, 1),
			Style:    StyleFor(b.Status),
			Resource: b,
		})
	}
	return events
}

func title(b *domain.Booking) string {
	boat := fmt.Sprintf("Boat #%d", b.BoatID)
	if b.Boat != nil && b.Boat.Name != "" {
		boat = b.Boat.Name
	}
	return boat + " - " + b.CustomerName
}
