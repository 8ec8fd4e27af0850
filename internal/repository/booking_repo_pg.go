package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindConflicts(ctx context.Context, boatID int64, start, end time.Time, excludeID *int64) ([]domain.Conflict, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	CompleteFinishedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

// bookingSelect reads a booking with its boat, the boat's location and type.
// Every booking read goes through it and scanBooking.
const bookingSelect = `SELECT bk.id, bk.boat_id, bk.start_at, bk.end_at, bk.status,
	bk.customer_name, bk.customer_phone, bk.customer_email, bk.passenger_count,
	bk.base_price, bk.extras_total, bk.total_amount, bk.currency, bk.payment_method,
	bk.deposit_received, bk.remaining_balance, bk.special_requests,
	bk.created_at, bk.updated_at, bk.created_by,
	b.name, b.title, b.images, b.location_id, b.person_capacity, b.travel_capacity,
	l.name, l.image_url, b.type_id, t.name`

const bookingJoins = `
	JOIN boats b ON b.id = bk.boat_id
	LEFT JOIN locations l ON l.id = b.location_id
	LEFT JOIN boat_types t ON t.id = b.type_id`

type bookingRow struct {
	ID               int64
	BoatID           int64
	StartAt          time.Time
	EndAt            time.Time
	Status           string
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	PassengerCount   int
	BasePrice        float64
	ExtrasTotal      float64
	TotalAmount      float64
	Currency         string
	PaymentMethod    *string
	DepositReceived  float64
	RemainingBalance float64
	SpecialRequests  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        *uuid.UUID

	BoatName           string
	BoatTitle          string
	BoatImages         []string
	BoatLocationID     *int64
	BoatPersonCapacity int
	BoatTravelCapacity int
	LocationName       *string
	LocationImageURL   *string
	BoatTypeID         *int64
	BoatTypeName       *string
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var r bookingRow
	if err := row.Scan(
		&r.ID, &r.BoatID, &r.StartAt, &r.EndAt, &r.Status,
		&r.CustomerName, &r.CustomerPhone, &r.CustomerEmail, &r.PassengerCount,
		&r.BasePrice, &r.ExtrasTotal, &r.TotalAmount, &r.Currency, &r.PaymentMethod,
		&r.DepositReceived, &r.RemainingBalance, &r.SpecialRequests,
		&r.CreatedAt, &r.UpdatedAt, &r.CreatedBy,
		&r.BoatName, &r.BoatTitle, &r.BoatImages, &r.BoatLocationID, &r.BoatPersonCapacity, &r.BoatTravelCapacity,
		&r.LocationName, &r.LocationImageURL, &r.BoatTypeID, &r.BoatTypeName,
	); err != nil {
		return nil, err
	}
	return r.toDomain(), nil
}

func (r bookingRow) toDomain() *domain.Booking {
	b := &domain.Booking{
		ID:               r.ID,
		BoatID:           r.BoatID,
		StartAt:          r.StartAt,
		EndAt:            r.EndAt,
		Status:           domain.BookingStatus(r.Status),
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerEmail:    r.CustomerEmail,
		PassengerCount:   r.PassengerCount,
		BasePrice:        r.BasePrice,
		ExtrasTotal:      r.ExtrasTotal,
		TotalAmount:      r.TotalAmount,
		Currency:         domain.Currency(r.Currency),
		DepositReceived:  r.DepositReceived,
		RemainingBalance: r.RemainingBalance,
		SpecialRequests:  r.SpecialRequests,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CreatedBy:        r.CreatedBy,
	}
	if r.PaymentMethod != nil {
		pm := domain.PaymentMethod(*r.PaymentMethod)
		b.PaymentMethod = &pm
	}

	images := r.BoatImages
	if images == nil {
		images = []string{}
	}
	b.Boat = &domain.BoatSummary{
		ID:             r.BoatID,
		Name:           r.BoatName,
		Title:          r.BoatTitle,
		Images:         images,
		LocationID:     r.BoatLocationID,
		PersonCapacity: r.BoatPersonCapacity,
		TravelCapacity: r.BoatTravelCapacity,
	}
	if r.BoatLocationID != nil && r.LocationName != nil {
		b.Boat.Location = &domain.Location{ID: *r.BoatLocationID, Name: *r.LocationName, ImageURL: r.LocationImageURL}
	}
	if r.BoatTypeID != nil && r.BoatTypeName != nil {
		b.Boat.Type = &domain.BoatType{ID: *r.BoatTypeID, Name: *r.BoatTypeName}
	}
	return b
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var (
		p     placeholders
		where []string
	)
	if filter.BoatID != nil {
		where = append(where, "bk.boat_id = "+p.add(*filter.BoatID))
	}
	if filter.Status != nil {
		where = append(where, "bk.status = "+p.add(string(*filter.Status)))
	}
	if filter.CustomerEmail != "" {
		where = append(where, "bk.customer_email ILIKE "+p.add("%"+filter.CustomerEmail+"%"))
	}
	if filter.StartFrom != nil {
		where = append(where, "bk.start_at >= "+p.add(*filter.StartFrom))
	}
	if filter.EndUntil != nil {
		where = append(where, "bk.end_at <= "+p.add(*filter.EndUntil))
	}
	if filter.Active {
		where = append(where, "bk.start_at >= now()")
	}

	query := bookingSelect + " FROM bookings bk" + bookingJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY bk.start_at DESC"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", mapError(err))
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, bookingSelect+" FROM bookings bk"+bookingJoins+" WHERE bk.id = $1", id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, mapError(err))
	}
	return b, nil
}

// FindConflicts returns the non-cancelled bookings of boatID whose interval
// intersects [start, end). Intervals that only touch do not conflict.
func (r *PGBookingRepository) FindConflicts(ctx context.Context, boatID int64, start, end time.Time, excludeID *int64) ([]domain.Conflict, error) {
	query := `SELECT id, customer_name, start_at, end_at, status FROM bookings
		WHERE boat_id = $1 AND status <> 'cancelled' AND end_at > $2 AND start_at < $3`
	args := []any{boatID, start, end}
	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}
	query += " ORDER BY start_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find conflicts: %w", mapError(err))
	}
	defer rows.Close()

	conflicts := make([]domain.Conflict, 0)
	for rows.Next() {
		var (
			c      domain.Conflict
			status string
		)
		if err := rows.Scan(&c.ID, &c.CustomerName, &c.StartAt, &c.EndAt, &status); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		c.Status = domain.BookingStatus(status)
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	var paymentMethod *string
	if b.PaymentMethod != nil {
		pm := string(*b.PaymentMethod)
		paymentMethod = &pm
	}

	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (boat_id, start_at, end_at, status,
		customer_name, customer_phone, customer_email, passenger_count,
		base_price, extras_total, currency, payment_method, deposit_received, special_requests, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`,
		b.BoatID, b.StartAt, b.EndAt, string(b.Status),
		b.CustomerName, b.CustomerPhone, b.CustomerEmail, b.PassengerCount,
		b.BasePrice, b.ExtrasTotal, string(b.Currency), paymentMethod, b.DepositReceived, b.SpecialRequests, b.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", mapError(err))
	}
	return r.GetByID(ctx, id)
}

// patchAssignments lists the SET clauses for the non-nil fields of patch in column order.
func patchAssignments(patch domain.BookingPatch, p *placeholders) []string {
	var sets []string
	set := func(column string, v any) {
		sets = append(sets, column+" = "+p.add(v))
	}
	if patch.BoatID != nil {
		set("boat_id", *patch.BoatID)
	}
	if patch.StartAt != nil {
		set("start_at", *patch.StartAt)
	}
	if patch.EndAt != nil {
		set("end_at", *patch.EndAt)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.CustomerName != nil {
		set("customer_name", *patch.CustomerName)
	}
	if patch.CustomerPhone != nil {
		set("customer_phone", *patch.CustomerPhone)
	}
	if patch.CustomerEmail != nil {
		set("customer_email", *patch.CustomerEmail)
	}
	if patch.PassengerCount != nil {
		set("passenger_count", *patch.PassengerCount)
	}
	if patch.BasePrice != nil {
		set("base_price", *patch.BasePrice)
	}
	if patch.ExtrasTotal != nil {
		set("extras_total", *patch.ExtrasTotal)
	}
	if patch.Currency != nil {
		set("currency", string(*patch.Currency))
	}
	if patch.PaymentMethod != nil {
		set("payment_method", string(*patch.PaymentMethod))
	}
	if patch.DepositReceived != nil {
		set("deposit_received", *patch.DepositReceived)
	}
	if patch.SpecialRequests != nil {
		set("special_requests", *patch.SpecialRequests)
	}
	return sets
}

func (r *PGBookingRepository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var p placeholders
	sets := patchAssignments(patch, &p)
	query := "UPDATE bookings SET " + strings.Join(sets, ", ") + ", updated_at = now() WHERE id = " + p.add(id)

	res, err := r.db.Exec(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("update booking %d: %w", id, mapError(err))
	}
	if res.RowsAffected() == 0 {
		return nil, fmt.Errorf("update booking %d: %w", id, domain.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, mapError(err))
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("delete booking %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CompleteFinishedBefore marks confirmed bookings that ended before deadline as completed.
func (r *PGBookingRepository) CompleteFinishedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	query := `WITH done AS (
		UPDATE bookings SET status = $1, updated_at = now()
		WHERE status = $2 AND end_at <= $3
		RETURNING *
	) ` + bookingSelect + " FROM done bk" + bookingJoins + " ORDER BY bk.start_at DESC"

	rows, err := r.db.Query(ctx, query, string(domain.BookingStatusCompleted), string(domain.BookingStatusConfirmed), deadline)
	if err != nil {
		return nil, fmt.Errorf("complete bookings: %w", mapError(err))
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan completed bookings: %w", err)
	}
	return bookings, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
