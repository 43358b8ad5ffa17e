package model

import (
	"github.com/lib/pq"

	"hotel/config"
	"hotel/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldName         = "name"
	FieldType         = "type"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldCapacity     = "capacity"
	FieldImages       = "images"
	FieldAvailability = "availability"
	FieldStatus       = "status"
)

// Status is the housekeeping state shown on the inventory screen.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusCleaning    Status = "cleaning"
)

var Statuses = []Status{StatusAvailable, StatusOccupied, StatusMaintenance, StatusCleaning}

func (s Status) Validate(*config.Config) error {
	return model.OneOf(s, Statuses...)
}

type Features struct {
	BedType      string `json:"bed_type"`
	Bathrooms    int    `json:"bathrooms"`
	HasBalcony   bool   `json:"has_balcony"`
	HasOceanView bool   `json:"has_ocean_view"`
	HasKitchen   bool   `json:"has_kitchen"`
}

type Room struct {
	ID           string                `db:"id"`
	Name         string                `db:"name"`
	Type         string                `db:"type"`
	Description  string                `db:"description"`
	Price        float64               `db:"price"`
	Capacity     int                   `db:"capacity"`
	Size         float64               `db:"size"`
	Images       pq.StringArray        `db:"images"`
	Amenities    pq.StringArray        `db:"amenities"`
	Availability bool                  `db:"availability"`
	Status       Status                `db:"status"`
	Features     model.JSONB[Features] `db:"features"`
	model.Metadata
}

// Fits reports whether the room can host the given number of guests.
func (r Room) Fits(guests int) bool {
	return guests > 0 && guests <= r.Capacity
}
