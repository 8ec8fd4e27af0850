package domain

import "time"

// Reference records managed through the back office. They are stored with gorm,
// so the struct tags here double as the table mapping.

type Location struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	ImageURL  *string   `json:"image_url" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Location) TableName() string { return "locations" }

type BoatType struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BoatType) TableName() string { return "boat_types" }

type Captain struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" validate:"required,max=255"`
	LastName  string    `json:"last_name" validate:"required,max=255"`
	Phone     string    `json:"phone" validate:"omitempty,phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Captain) TableName() string { return "captains" }

type Owner struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" validate:"required,max=255"`
	LastName  string    `json:"last_name" validate:"required,max=255"`
	Phone     string    `json:"phone" validate:"omitempty,phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Owner) TableName() string { return "boat_owners" }

type Amenity struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required,max=255"`
	Icon      string    `json:"icon" validate:"max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Amenity) TableName() string { return "amenities" }

type Addon struct {
	ID       int64    `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency Currency `json:"currency"`
}

func (Addon) TableName() string { return "addons" }

type FAQ struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sort_order"`
}

func (FAQ) TableName() string { return "faqs" }
