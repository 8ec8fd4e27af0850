package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
)

const dateLayout = "02 Jan 2006 15:04"

type mailer interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

type Sender struct {
	mg   mailer
	from string
}

// NewSender sends through Mailgun when a domain and key are configured and
// only logs the notification otherwise.
func NewSender(cfg config.MailConfig) *Sender {
	s := &Sender{from: cfg.From}
	if cfg.Domain != "" && cfg.APIKey != "" {
		s.mg = mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	}
	return s
}

func (s *Sender) Send(ctx context.Context, event domain.BookingEvent) error {
	if event.CustomerEmail == "" {
		return nil
	}

	subject, body := compose(event)
	log := logrus.WithFields(logrus.Fields{
		"booking_id": event.BookingID,
		"type":       event.Type,
		"to":         event.CustomerEmail,
	})

	if s.mg == nil {
		log.Info("mail transport not configured, notification logged only")
		return nil
	}

	m := s.mg.NewMessage(s.from, subject, body, fmt.Sprintf("%s <%s>", event.CustomerName, event.CustomerEmail))
	_, id, err := s.mg.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("send booking mail: %w", err)
	}
	log.WithField("message_id", id).Info("booking mail sent")
	return nil
}

func compose(event domain.BookingEvent) (string, string) {
	boat := event.BoatName
	if boat == "" {
		boat = fmt.Sprintf("Boat #%d", event.BoatID)
	}

	var subject, intro string
	switch event.Type {
	case domain.EventBookingCreated:
		subject = "Your booking request for " + boat
		intro = "we have received your booking."
	case domain.EventBookingDeleted:
		subject = "Your booking for " + boat + " was cancelled"
		intro = "your booking has been removed."
	default:
		subject = "Your booking for " + boat + " was updated"
		intro = "your booking details have changed."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n%s\n\n", event.CustomerName, strings.ToUpper(intro[:1])+intro[1:])
	fmt.Fprintf(&b, "Boat: %s\n", boat)
	fmt.Fprintf(&b, "From: %s\n", event.StartAt.Format(dateLayout))
	fmt.Fprintf(&b, "To: %s\n", event.EndAt.Format(dateLayout))
	fmt.Fprintf(&b, "Status: %s\n", event.Status)
	return subject, b.String()
}
