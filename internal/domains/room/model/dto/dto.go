package dto

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateRoomRequest struct {
	Name         string                  `json:"name"         validate:"required,max=100"`
	Type         string                  `json:"type"         validate:"required,max=100"`
	Description  string                  `json:"description"  validate:"omitempty,max=2000"`
	Price        float64                 `json:"price"        validate:"gte=0"`
	Capacity     int                     `json:"capacity"     validate:"gte=1"`
	Size         float64                 `json:"size"         validate:"gte=0"`
	Amenities    []string                `json:"amenities"    validate:"omitempty,dive,max=100"`
	Availability *bool                   `json:"availability" validate:"omitempty"`
	Status       model.Status            `json:"status"       validate:"omitempty,hotel"`
	Features     model.Features          `json:"features"`
	Images       []*multipart.FileHeader `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURLs []string) model.Room {
	availability := true
	if c.Availability != nil {
		availability = *c.Availability
	}

	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	now := timezone.Now()

	return model.Room{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Type:         c.Type,
		Description:  c.Description,
		Price:        c.Price,
		Capacity:     c.Capacity,
		Size:         c.Size,
		Images:       pq.StringArray(nonNil(imageURLs)),
		Amenities:    pq.StringArray(nonNil(c.Amenities)),
		Availability: availability,
		Status:       status,
		Features:     gModel.NewJSONB(c.Features),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest only touches the fields that are set. Uploaded images are
// appended; RemoveImages drops existing URLs.
type UpdateRoomRequest struct {
	Name         string                        `db:"name"         json:"name"          validate:"omitempty,max=100"`
	Type         string                        `db:"type"         json:"type"          validate:"omitempty,max=100"`
	Description  string                        `db:"description"  json:"description"   validate:"omitempty,max=2000"`
	Price        *float64                      `db:"price"        json:"price"         validate:"omitempty,gte=0"`
	Capacity     *int                          `db:"capacity"     json:"capacity"      validate:"omitempty,gte=1"`
	Size         *float64                      `db:"size"         json:"size"          validate:"omitempty,gte=0"`
	Amenities    pq.StringArray                `db:"amenities"    json:"amenities"     validate:"omitempty,dive,max=100"`
	Availability *bool                         `db:"availability" json:"availability"  validate:"omitempty"`
	Status       model.Status                  `db:"status"       json:"status"        validate:"omitempty,hotel"`
	Features     *gModel.JSONB[model.Features] `db:"features"     json:"features"`
	RemoveImages []string                      `json:"remove_images" validate:"omitempty,dive,url"`
	Images       []*multipart.FileHeader       `json:"-"`
}

type UpdateRoomStatusRequest struct {
	Status model.Status `db:"status" json:"status" validate:"required,hotel"`
}

type RoomResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Capacity     int            `json:"capacity"`
	Size         float64        `json:"size"`
	Images       []string       `json:"images"`
	Amenities    []string       `json:"amenities"`
	Availability bool           `json:"availability"`
	Status       model.Status   `json:"status"`
	Features     model.Features `json:"features"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(room model.Room) {
	r.ID = room.ID
	r.Name = room.Name
	r.Type = room.Type
	r.Description = room.Description
	r.Price = room.Price
	r.Capacity = room.Capacity
	r.Size = room.Size
	r.Images = nonNil(room.Images)
	r.Amenities = nonNil(room.Amenities)
	r.Availability = room.Availability
	r.Status = room.Status
	r.Features = room.Features.Data
	r.Metadata.FromModel(room.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
