package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusProvisional BookingStatus = "provisional"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusProvisional, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyTRY Currency = "TRY"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

type Booking struct {
	ID               int64          `json:"id"`
	BoatID           int64          `json:"boat_id"`
	StartAt          time.Time      `json:"start_at"`
	EndAt            time.Time      `json:"end_at"`
	Status           BookingStatus  `json:"status"`
	CustomerName     string         `json:"customer_name"`
	CustomerPhone    string         `json:"customer_phone"`
	CustomerEmail    string         `json:"customer_email"`
	PassengerCount   int            `json:"passenger_count"`
	BasePrice        float64        `json:"base_price"`
	ExtrasTotal      float64        `json:"extras_total"`
	TotalAmount      float64        `json:"total_amount"`
	Currency         Currency       `json:"currency"`
	PaymentMethod    *PaymentMethod `json:"payment_method"`
	DepositReceived  float64        `json:"deposit_received"`
	RemainingBalance float64        `json:"remaining_balance"`
	SpecialRequests  *string        `json:"special_requests"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CreatedBy        *uuid.UUID     `json:"created_by"`
	Boat             *BoatSummary   `json:"boat"`
}

// BoatSummary is the slice of a boat joined onto booking reads.
type BoatSummary struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Images         []string  `json:"images"`
	LocationID     *int64    `json:"location_id"`
	PersonCapacity int       `json:"person_capacity"`
	TravelCapacity int       `json:"travel_capacity"`
	Location       *Location `json:"location,omitempty"`
	Type           *BoatType `json:"type,omitempty"`
}

// BookingPatch carries the fields of a partial update. Nil fields are left untouched.
type BookingPatch struct {
	BoatID          *int64
	StartAt         *time.Time
	EndAt           *time.Time
	Status          *BookingStatus
	CustomerName    *string
	CustomerPhone   *string
	CustomerEmail   *string
	PassengerCount  *int
	BasePrice       *float64
	ExtrasTotal     *float64
	Currency        *Currency
	PaymentMethod   *PaymentMethod
	DepositReceived *float64
	SpecialRequests *string
}

func (p BookingPatch) Empty() bool {
	return p == BookingPatch{}
}

type BookingFilter struct {
	BoatID        *int64         `json:"boat_id,omitempty"`
	Status        *BookingStatus `json:"status,omitempty"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	StartFrom     *time.Time     `json:"start_from,omitempty"`
	EndUntil      *time.Time     `json:"end_until,omitempty"`
	// Active limits the result to bookings starting from now on.
	Active bool `json:"active,omitempty"`
}

type Conflict struct {
	ID           int64         `json:"id"`
	StartAt      time.Time     `json:"start_at"`
	EndAt        time.Time     `json:"end_at"`
	Status       BookingStatus `json:"status"`
	CustomerName string        `json:"customer_name"`
}

type Availability struct {
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

func NewAvailability(conflicts []Conflict) *Availability {
	if conflicts == nil {
		conflicts = []Conflict{}
	}
	return &Availability{Available: len(conflicts) == 0, Conflicts: conflicts}
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
