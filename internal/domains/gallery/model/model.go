package model

import (
	"hotel/config"
	"hotel/shared/model"
)

const (
	TableName  = "room_gallery"
	EntityName = "gallery"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldImageURL    = "image_url"
	FieldTitle       = "image_title"
	FieldDescription = "image_description"
	FieldImageType   = "image_type"
	FieldIsMainImage = "is_main_image"
)

type ImageType string

const (
	ImageMain     ImageType = "main"
	ImageBedroom  ImageType = "bedroom"
	ImageBathroom ImageType = "bathroom"
	ImageAmenity  ImageType = "amenity"
	ImageView     ImageType = "view"
)

var ImageTypes = []ImageType{ImageMain, ImageBedroom, ImageBathroom, ImageAmenity, ImageView}

func (i ImageType) Validate(*config.Config) error {
	return model.OneOf(i, ImageTypes...)
}

// Image is one photo in a room's gallery. At most one image per room is the
// main image.
type Image struct {
	ID          string    `db:"id"`
	RoomID      string    `db:"room_id"`
	ImageURL    string    `db:"image_url"`
	Title       string    `db:"image_title"`
	Description string    `db:"image_description"`
	ImageType   ImageType `db:"image_type"`
	IsMainImage bool      `db:"is_main_image"`
	model.Metadata
}
