package dto

import (
	"mime/multipart"

	"github.com/google/uuid"

	"hotel/infras/s3"
	"hotel/internal/domains/gallery/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreateImagesRequest struct {
	RoomID      string                  `json:"room_id"           validate:"required,uuid"`
	ImageType   model.ImageType         `json:"image_type"        validate:"required,hotel"`
	Title       string                  `json:"image_title"       validate:"omitempty,max=200"`
	Description string                  `json:"image_description" validate:"omitempty,max=1000"`
	IsMainImage bool                    `json:"is_main_image"`
	Files       []*multipart.FileHeader `json:"-"                 validate:"required,min=1"`
}

// ToModels turns every stored upload into one gallery entry. Only the first
// entry can carry the main flag.
func (c *CreateImagesRequest) ToModels(user string, objects []s3.Object) []model.Image {
	now := timezone.Now()
	images := make([]model.Image, len(objects))

	for i, obj := range objects {
		images[i] = model.Image{
			ID:          uuid.NewString(),
			RoomID:      c.RoomID,
			ImageURL:    obj.URL,
			Title:       c.Title,
			Description: c.Description,
			ImageType:   c.ImageType,
			IsMainImage: c.IsMainImage && i == 0,
			Metadata: gModel.Metadata{
				CreatedAt:  now,
				ModifiedAt: now,
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return images
}

type UpdateImageRequest struct {
	Title       string          `db:"image_title"       json:"image_title"       validate:"omitempty,max=200"`
	Description string          `db:"image_description" json:"image_description" validate:"omitempty,max=1000"`
	ImageType   model.ImageType `db:"image_type"        json:"image_type"        validate:"omitempty,hotel"`
	IsMainImage *bool           `db:"is_main_image"     json:"is_main_image"`
}

// PromotesMain reports whether the update makes this image the room's main one.
func (u *UpdateImageRequest) PromotesMain() bool {
	return u.IsMainImage != nil && *u.IsMainImage
}

type ImageResponse struct {
	ID          string          `json:"id"`
	RoomID      string          `json:"room_id"`
	ImageURL    string          `json:"image_url"`
	Title       string          `json:"image_title"`
	Description string          `json:"image_description"`
	ImageType   model.ImageType `json:"image_type"`
	IsMainImage bool            `json:"is_main_image"`
	gDto.Metadata
}

func (r *ImageResponse) FromModel(image model.Image) {
	r.ID = image.ID
	r.RoomID = image.RoomID
	r.ImageURL = image.ImageURL
	r.Title = image.Title
	r.Description = image.Description
	r.ImageType = image.ImageType
	r.IsMainImage = image.IsMainImage
	r.Metadata.FromModel(image.Metadata)
}

type GetImagesResponse struct {
	Images    []ImageResponse `json:"images"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetImagesResponse) FromModels(models []model.Image, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Images = make([]ImageResponse, len(models))
	for i, mod := range models {
		r.Images[i].FromModel(mod)
	}
}

type CreatedResponse struct {
	IDs []string `json:"ids"`
}
