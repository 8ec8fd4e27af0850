package boats

import "github.com/Domenick1991/boatbooking/internal/domain"

// BoatInput is the back-office boat form. Updates replace the whole record.
type BoatInput struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Title          string   `json:"title" validate:"max=255"`
	Images         []string `json:"images" validate:"dive,url"`
	TypeID         *int64   `json:"type_id" validate:"omitempty,gt=0"`
	LocationID     *int64   `json:"location_id" validate:"omitempty,gt=0"`
	CaptainID      *int64   `json:"captain_id" validate:"omitempty,gt=0"`
	OwnerID        *int64   `json:"owner_id" validate:"omitempty,gt=0"`
	DurationType   string   `json:"duration_type" validate:"max=50"`
	CabinCount     int      `json:"cabin_count" validate:"gte=0,lte=50"`
	PersonCapacity int      `json:"person_capacity" validate:"gt=0,lte=500"`
	TravelCapacity int      `json:"travel_capacity" validate:"gte=0,lte=500"`
	Length         float64  `json:"length" validate:"gte=0,lte=200"`
	Details        string   `json:"details" validate:"max=10000"`
	AmenityIDs     []int64  `json:"amenity_ids" validate:"dive,gt=0"`
	Price          float64  `json:"price" validate:"gte=0,lte=999999999.99"`
	Discount       float64  `json:"discount" validate:"gte=0,lte=100"`
	URL            string   `json:"url" validate:"omitempty,url"`
}

func (in BoatInput) toBoat() *domain.Boat {
	b := &domain.Boat{
		Name:           in.Name,
		Title:          in.Title,
		Images:         in.Images,
		TypeID:         in.TypeID,
		LocationID:     in.LocationID,
		CaptainID:      in.CaptainID,
		OwnerID:        in.OwnerID,
		DurationType:   in.DurationType,
		CabinCount:     in.CabinCount,
		PersonCapacity: in.PersonCapacity,
		TravelCapacity: in.TravelCapacity,
		Length:         in.Length,
		Details:        in.Details,
		AmenityIDs:     in.AmenityIDs,
		Price:          in.Price,
		Discount:       in.Discount,
		URL:            in.URL,
	}
	if b.Images == nil {
		b.Images = []string{}
	}
	if b.AmenityIDs == nil {
		b.AmenityIDs = []int64{}
	}
	return b
}
