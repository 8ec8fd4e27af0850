package domain

import "time"

type Boat struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Images         []string  `json:"images"`
	TypeID         *int64    `json:"type_id"`
	LocationID     *int64    `json:"location_id"`
	CaptainID      *int64    `json:"captain_id"`
	OwnerID        *int64    `json:"owner_id"`
	DurationType   string    `json:"duration_type"`
	CabinCount     int       `json:"cabin_count"`
	PersonCapacity int       `json:"person_capacity"`
	TravelCapacity int       `json:"travel_capacity"`
	Length         float64   `json:"length"`
	Details        string    `json:"details"`
	AmenityIDs     []int64   `json:"amenity_ids"`
	Price          float64   `json:"price"`
	Discount       float64   `json:"discount"`
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Location *Location `json:"location,omitempty"`
	Type     *BoatType `json:"type,omitempty"`
	Captain  *Captain  `json:"captain,omitempty"`
	Owner    *Owner    `json:"owner,omitempty"`
}

type BoatFilter struct {
	LocationID *int64 `json:"location_id,omitempty"`
	TypeID     *int64 `json:"type_id,omitempty"`
	// People keeps boats whose person capacity is at least this many.
	People int `json:"people,omitempty"`
	// AvailableOn hides boats holding a non-cancelled booking on that day.
	AvailableOn *time.Time `json:"available_on,omitempty"`
}
