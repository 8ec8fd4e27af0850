package booking

import (
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/google/uuid"
)

type AvailabilityQuery struct {
	BoatID    int64     `json:"boat_id" validate:"gt=0"`
	StartAt   time.Time `json:"start_at" validate:"required"`
	EndAt     time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
	ExcludeID *int64    `json:"exclude_id,omitempty"`
}

// CreateBookingInput is the booking form. Update requests are merged over the
// stored booking into this shape so both paths share one rule set.
type CreateBookingInput struct {
	BoatID          int64                 `json:"boat_id" validate:"gt=0"`
	StartAt         time.Time             `json:"start_at" validate:"required"`
	EndAt           time.Time             `json:"end_at" validate:"required,gtfield=StartAt"`
	Status          domain.BookingStatus  `json:"status" validate:"omitempty,oneof=provisional confirmed completed cancelled"`
	CustomerName    string                `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerPhone   string                `json:"customer_phone" validate:"required,min=10,max=20,phone"`
	CustomerEmail   string                `json:"customer_email" validate:"required,email,max=255"`
	PassengerCount  int                   `json:"passenger_count" validate:"gt=0,lte=100"`
	BasePrice       float64               `json:"base_price" validate:"gte=0,lte=999999999.99"`
	ExtrasTotal     float64               `json:"extras_total" validate:"gte=0,lte=999999999.99"`
	Currency        domain.Currency       `json:"currency" validate:"omitempty,oneof=EUR USD TRY"`
	PaymentMethod   *domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer credit_card"`
	DepositReceived float64               `json:"deposit_received" validate:"gte=0,lte=999999999.99"`
	SpecialRequests *string               `json:"special_requests" validate:"omitempty,max=5000"`
}

func (in CreateBookingInput) CrossFieldErrors() []domain.FieldError {
	return depositErrors(in.BasePrice, in.ExtrasTotal, in.DepositReceived)
}

func depositErrors(base, extras, deposit float64) []domain.FieldError {
	if deposit > base+extras {
		return []domain.FieldError{{Field: "deposit_received", Message: "must not exceed the total amount"}}
	}
	return nil
}

func (in CreateBookingInput) toBooking(actor *uuid.UUID) *domain.Booking {
	b := &domain.Booking{
		BoatID:          in.BoatID,
		StartAt:         in.StartAt,
		EndAt:           in.EndAt,
		Status:          in.Status,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		PassengerCount:  in.PassengerCount,
		BasePrice:       in.BasePrice,
		ExtrasTotal:     in.ExtrasTotal,
		Currency:        in.Currency,
		PaymentMethod:   in.PaymentMethod,
		DepositReceived: in.DepositReceived,
		SpecialRequests: in.SpecialRequests,
		CreatedBy:       actor,
	}
	if b.Status == "" {
		b.Status = domain.BookingStatusProvisional
	}
	if b.Currency == "" {
		b.Currency = domain.CurrencyEUR
	}
	return b
}

// UpdateBookingInput is a partial update; absent fields keep their stored values.
// A JSON null decodes the same as an absent field, so payment_method and
// special_requests cannot be cleared here. Send an empty string for
// special_requests to blank it; payment_method stays once set.
type UpdateBookingInput struct {
	BoatID          *int64                `json:"boat_id"`
	StartAt         *time.Time            `json:"start_at"`
	EndAt           *time.Time            `json:"end_at"`
	Status          *domain.BookingStatus `json:"status"`
	CustomerName    *string               `json:"customer_name"`
	CustomerPhone   *string               `json:"customer_phone"`
	CustomerEmail   *string               `json:"customer_email"`
	PassengerCount  *int                  `json:"passenger_count"`
	BasePrice       *float64              `json:"base_price"`
	ExtrasTotal     *float64              `json:"extras_total"`
	Currency        *domain.Currency      `json:"currency"`
	PaymentMethod   *domain.PaymentMethod `json:"payment_method"`
	DepositReceived *float64              `json:"deposit_received"`
	SpecialRequests *string               `json:"special_requests"`
}

func (in UpdateBookingInput) patch() domain.BookingPatch {
	return domain.BookingPatch{
		BoatID:          in.BoatID,
		StartAt:         in.StartAt,
		EndAt:           in.EndAt,
		Status:          in.Status,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		PassengerCount:  in.PassengerCount,
		BasePrice:       in.BasePrice,
		ExtrasTotal:     in.ExtrasTotal,
		Currency:        in.Currency,
		PaymentMethod:   in.PaymentMethod,
		DepositReceived: in.DepositReceived,
		SpecialRequests: in.SpecialRequests,
	}
}

// mergeOver returns the form the booking would have after the update.
func (in UpdateBookingInput) mergeOver(current *domain.Booking) CreateBookingInput {
	merged := CreateBookingInput{
		BoatID:          current.BoatID,
		StartAt:         current.StartAt,
		EndAt:           current.EndAt,
		Status:          current.Status,
		CustomerName:    current.CustomerName,
		CustomerPhone:   current.CustomerPhone,
		CustomerEmail:   current.CustomerEmail,
		PassengerCount:  current.PassengerCount,
		BasePrice:       current.BasePrice,
		ExtrasTotal:     current.ExtrasTotal,
		Currency:        current.Currency,
		PaymentMethod:   current.PaymentMethod,
		DepositReceived: current.DepositReceived,
		SpecialRequests: current.SpecialRequests,
	}
	if in.BoatID != nil {
		merged.BoatID = *in.BoatID
	}
	if in.StartAt != nil {
		merged.StartAt = *in.StartAt
	}
	if in.EndAt != nil {
		merged.EndAt = *in.EndAt
	}
	if in.Status != nil {
		merged.Status = *in.Status
	}
	if in.CustomerName != nil {
		merged.CustomerName = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		merged.CustomerPhone = *in.CustomerPhone
	}
	if in.CustomerEmail != nil {
		merged.CustomerEmail = *in.CustomerEmail
	}
	if in.PassengerCount != nil {
		merged.PassengerCount = *in.PassengerCount
	}
	if in.BasePrice != nil {
		merged.BasePrice = *in.BasePrice
	}
	if in.ExtrasTotal != nil {
		merged.ExtrasTotal = *in.ExtrasTotal
	}
	if in.Currency != nil {
		merged.Currency = *in.Currency
	}
	if in.PaymentMethod != nil {
		merged.PaymentMethod = in.PaymentMethod
	}
	if in.DepositReceived != nil {
		merged.DepositReceived = *in.DepositReceived
	}
	if in.SpecialRequests != nil {
		merged.SpecialRequests = in.SpecialRequests
	}
	return merged
}

// QuoteInput feeds the financial preview of the booking form.
type QuoteInput struct {
	BasePrice       float64         `json:"base_price" validate:"gte=0,lte=999999999.99"`
	ExtrasTotal     float64         `json:"extras_total" validate:"gte=0,lte=999999999.99"`
	DepositReceived float64         `json:"deposit_received" validate:"gte=0,lte=999999999.99"`
	Currency        domain.Currency `json:"currency" validate:"omitempty,oneof=EUR USD TRY"`
}

func (in QuoteInput) CrossFieldErrors() []domain.FieldError {
	return depositErrors(in.BasePrice, in.ExtrasTotal, in.DepositReceived)
}
