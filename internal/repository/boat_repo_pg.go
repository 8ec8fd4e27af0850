package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BoatRepository interface {
	List(ctx context.Context, filter domain.BoatFilter) ([]domain.Boat, error)
	GetByID(ctx context.Context, id int64) (*domain.Boat, error)
	Create(ctx context.Context, boat *domain.Boat) (*domain.Boat, error)
	Update(ctx context.Context, id int64, boat *domain.Boat) (*domain.Boat, error)
	Delete(ctx context.Context, id int64) error
}

type PGBoatRepository struct {
	db DB
}

func NewBoatRepository(db DB) BoatRepository {
	return &PGBoatRepository{db: db}
}

const boatSelect = `SELECT b.id, b.name, b.title, b.images, b.type_id, b.location_id, b.captain_id, b.owner_id,
	b.duration_type, b.cabin_count, b.person_capacity, b.travel_capacity, b.length, b.details,
	b.amenity_ids, b.price, b.discount, b.url, b.created_at, b.updated_at,
	l.name, l.image_url, t.name, c.first_name, c.last_name, c.phone, o.first_name, o.last_name, o.phone
	FROM boats b
	LEFT JOIN locations l ON l.id = b.location_id
	LEFT JOIN boat_types t ON t.id = b.type_id
	LEFT JOIN captains c ON c.id = b.captain_id
	LEFT JOIN boat_owners o ON o.id = b.owner_id`

func scanBoat(row pgx.Row) (*domain.Boat, error) {
	var (
		b                                     domain.Boat
		locationName, locationImage, typeName *string
		captainFirst, captainLast, captainTel *string
		ownerFirst, ownerLast, ownerTel       *string
	)
	if err := row.Scan(
		&b.ID, &b.Name, &b.Title, &b.Images, &b.TypeID, &b.LocationID, &b.CaptainID, &b.OwnerID,
		&b.DurationType, &b.CabinCount, &b.PersonCapacity, &b.TravelCapacity, &b.Length, &b.Details,
		&b.AmenityIDs, &b.Price, &b.Discount, &b.URL, &b.CreatedAt, &b.UpdatedAt,
		&locationName, &locationImage, &typeName, &captainFirst, &captainLast, &captainTel, &ownerFirst, &ownerLast, &ownerTel,
	); err != nil {
		return nil, err
	}

	if b.Images == nil {
		b.Images = []string{}
	}
	if b.AmenityIDs == nil {
		b.AmenityIDs = []int64{}
	}
	if b.LocationID != nil && locationName != nil {
		b.Location = &domain.Location{ID: *b.LocationID, Name: *locationName, ImageURL: locationImage}
	}
	if b.TypeID != nil && typeName != nil {
		b.Type = &domain.BoatType{ID: *b.TypeID, Name: *typeName}
	}
	if b.CaptainID != nil && captainFirst != nil {
		b.Captain = &domain.Captain{ID: *b.CaptainID, FirstName: *captainFirst, LastName: deref(captainLast), Phone: deref(captainTel)}
	}
	if b.OwnerID != nil && ownerFirst != nil {
		b.Owner = &domain.Owner{ID: *b.OwnerID, FirstName: *ownerFirst, LastName: deref(ownerLast), Phone: deref(ownerTel)}
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *PGBoatRepository) List(ctx context.Context, filter domain.BoatFilter) ([]domain.Boat, error) {
	var (
		p     placeholders
		where []string
	)
	if filter.LocationID != nil {
		where = append(where, "b.location_id = "+p.add(*filter.LocationID))
	}
	if filter.TypeID != nil {
		where = append(where, "b.type_id = "+p.add(*filter.TypeID))
	}
	if filter.People > 0 {
		where = append(where, "b.person_capacity >= "+p.add(filter.People))
	}
	if filter.AvailableOn != nil {
		day := time.Date(filter.AvailableOn.Year(), filter.AvailableOn.Month(), filter.AvailableOn.Day(), 0, 0, 0, 0, filter.AvailableOn.Location())
		where = append(where, fmt.Sprintf(`NOT EXISTS (SELECT 1 FROM bookings bk
			WHERE bk.boat_id = b.id AND bk.status <> 'cancelled' AND bk.start_at < %s AND bk.end_at > %s)`,
			p.add(day.AddDate(0, 0, 1)), p.add(day)))
	}

	query := boatSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.id"

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("list boats: %w", mapError(err))
	}
	defer rows.Close()

	boats := make([]domain.Boat, 0)
	for rows.Next() {
		b, err := scanBoat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan boat: %w", err)
		}
		boats = append(boats, *b)
	}
	return boats, rows.Err()
}

func (r *PGBoatRepository) GetByID(ctx context.Context, id int64) (*domain.Boat, error) {
	b, err := scanBoat(r.db.QueryRow(ctx, boatSelect+" WHERE b.id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get boat %d: %w", id, mapError(err))
	}
	return b, nil
}

func boatArgs(b *domain.Boat) []any {
	images := b.Images
	if images == nil {
		images = []string{}
	}
	amenities := b.AmenityIDs
	if amenities == nil {
		amenities = []int64{}
	}
	return []any{
		b.Name, b.Title, images, b.TypeID, b.LocationID, b.CaptainID, b.OwnerID,
		b.DurationType, b.CabinCount, b.PersonCapacity, b.TravelCapacity, b.Length, b.Details,
		amenities, b.Price, b.Discount, b.URL,
	}
}

func (r *PGBoatRepository) Create(ctx context.Context, b *domain.Boat) (*domain.Boat, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO boats (name, title, images, type_id, location_id, captain_id, owner_id,
		duration_type, cabin_count, person_capacity, travel_capacity, length, details, amenity_ids, price, discount, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`, boatArgs(b)...).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert boat: %w", mapError(err))
	}
	return r.GetByID(ctx, id)
}

func (r *PGBoatRepository) Update(ctx context.Context, id int64, b *domain.Boat) (*domain.Boat, error) {
	args := append(boatArgs(b), id)
	res, err := r.db.Exec(ctx, `UPDATE boats SET name = $1, title = $2, images = $3, type_id = $4, location_id = $5,
		captain_id = $6, owner_id = $7, duration_type = $8, cabin_count = $9, person_capacity = $10,
		travel_capacity = $11, length = $12, details = $13, amenity_ids = $14, price = $15, discount = $16,
		url = $17, updated_at = now()
		WHERE id = $18`, args...)
	if err != nil {
		return nil, fmt.Errorf("update boat %d: %w", id, mapError(err))
	}
	if res.RowsAffected() == 0 {
		return nil, fmt.Errorf("update boat %d: %w", id, domain.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *PGBoatRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM boats WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.NewValidationError(domain.FieldError{Field: "id", Message: "boat still has bookings"})
	}
	if err != nil {
		return fmt.Errorf("delete boat %d: %w", id, mapError(err))
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("delete boat %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

var _ BoatRepository = (*PGBoatRepository)(nil)
