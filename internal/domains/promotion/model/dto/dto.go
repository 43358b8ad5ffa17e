package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hotel/internal/domains/promotion/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type CreatePromotionRequest struct {
	Title               string             `json:"title"                 validate:"required,max=200"`
	Description         string             `json:"description"           validate:"omitempty,max=2000"`
	PromoCode           string             `json:"promo_code"            validate:"omitempty,max=50,alphanum"`
	DiscountType        model.DiscountType `json:"discount_type"         validate:"required,hotel"`
	DiscountValue       float64            `json:"discount_value"        validate:"gt=0"`
	MinimumSpend        float64            `json:"minimum_spend"         validate:"gte=0"`
	MaximumDiscount     float64            `json:"maximum_discount"      validate:"gte=0"`
	StartDate           string             `json:"start_date"            validate:"required,datetime=2006-01-02"`
	EndDate             string             `json:"end_date"              validate:"required,datetime=2006-01-02"`
	IsActive            *bool              `json:"is_active"`
	UsageLimit          int                `json:"usage_limit"           validate:"gte=0"`
	ApplicableRoomTypes []string           `json:"applicable_room_types" validate:"omitempty,dive,max=100"`
	Terms               string             `json:"terms"                 validate:"omitempty,max=5000"`
}

func (c *CreatePromotionRequest) ToModel(user string) (model.Promotion, error) {
	start, end, err := ParseRange(c.StartDate, c.EndDate)
	if err != nil {
		return model.Promotion{}, err
	}

	if c.DiscountType == model.DiscountPercentage && c.DiscountValue > 100 {
		return model.Promotion{}, failure.BadRequestFromString("percentage discount must not exceed 100")
	}

	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	roomTypes := c.ApplicableRoomTypes
	if roomTypes == nil {
		roomTypes = []string{}
	}

	now := timezone.Now()

	return model.Promotion{
		ID:                  uuid.NewString(),
		Title:               c.Title,
		Description:         c.Description,
		PromoCode:           CodePointer(c.PromoCode),
		DiscountType:        c.DiscountType,
		DiscountValue:       c.DiscountValue,
		MinimumSpend:        c.MinimumSpend,
		MaximumDiscount:     c.MaximumDiscount,
		StartDate:           start,
		EndDate:             end,
		IsActive:            isActive,
		UsageLimit:          c.UsageLimit,
		ApplicableRoomTypes: pq.StringArray(roomTypes),
		Terms:               c.Terms,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdatePromotionRequest struct {
	Title               string             `db:"title"                 json:"title"                 validate:"omitempty,max=200"`
	Description         string             `db:"description"           json:"description"           validate:"omitempty,max=2000"`
	PromoCode           string             `db:"promo_code"            json:"promo_code"            validate:"omitempty,max=50,alphanum"`
	DiscountType        model.DiscountType `db:"discount_type"         json:"discount_type"         validate:"omitempty,hotel"`
	DiscountValue       *float64           `db:"discount_value"        json:"discount_value"        validate:"omitempty,gt=0"`
	MinimumSpend        *float64           `db:"minimum_spend"         json:"minimum_spend"         validate:"omitempty,gte=0"`
	MaximumDiscount     *float64           `db:"maximum_discount"      json:"maximum_discount"      validate:"omitempty,gte=0"`
	StartDate           string             `db:"start_date"            json:"start_date"            validate:"omitempty,datetime=2006-01-02"`
	EndDate             string             `db:"end_date"              json:"end_date"              validate:"omitempty,datetime=2006-01-02"`
	IsActive            *bool              `db:"is_active"             json:"is_active"`
	UsageLimit          *int               `db:"usage_limit"           json:"usage_limit"           validate:"omitempty,gte=0"`
	ApplicableRoomTypes pq.StringArray     `db:"applicable_room_types" json:"applicable_room_types" validate:"omitempty,dive,max=100"`
	Terms               string             `db:"terms"                 json:"terms"                 validate:"omitempty,max=5000"`
}

// Merge checks the request against the stored promotion: the resulting date
// range must stay ordered and a percentage must stay within 100.
func (u *UpdatePromotionRequest) Merge(current model.Promotion) error {
	start := current.StartDate.Format(constant.DateOnlyFormat)
	if u.StartDate != constant.Empty {
		start = u.StartDate
	}

	end := current.EndDate.Format(constant.DateOnlyFormat)
	if u.EndDate != constant.Empty {
		end = u.EndDate
	}

	if _, _, err := ParseRange(start, end); err != nil {
		return err
	}

	discountType, value := current.DiscountType, current.DiscountValue
	if u.DiscountType != constant.Empty {
		discountType = u.DiscountType
	}

	if u.DiscountValue != nil {
		value = *u.DiscountValue
	}

	if discountType == model.DiscountPercentage && value > 100 {
		return failure.BadRequestFromString("percentage discount must not exceed 100")
	}

	u.PromoCode = model.NormalizeCode(u.PromoCode)

	return nil
}

type PromotionResponse struct {
	ID                  string             `json:"id"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	PromoCode           string             `json:"promo_code"`
	DiscountType        model.DiscountType `json:"discount_type"`
	DiscountValue       float64            `json:"discount_value"`
	MinimumSpend        float64            `json:"minimum_spend"`
	MaximumDiscount     float64            `json:"maximum_discount"`
	StartDate           string             `json:"start_date"`
	EndDate             string             `json:"end_date"`
	IsActive            bool               `json:"is_active"`
	UsageLimit          int                `json:"usage_limit"`
	UsedCount           int                `json:"used_count"`
	ApplicableRoomTypes []string           `json:"applicable_room_types"`
	BannerImage         string             `json:"banner_image"`
	Terms               string             `json:"terms"`
	gDto.Metadata
}

func (r *PromotionResponse) FromModel(promo model.Promotion) {
	r.ID = promo.ID
	r.Title = promo.Title
	r.Description = promo.Description
	r.DiscountType = promo.DiscountType
	r.DiscountValue = promo.DiscountValue
	r.MinimumSpend = promo.MinimumSpend
	r.MaximumDiscount = promo.MaximumDiscount
	r.StartDate = promo.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = promo.EndDate.Format(constant.DateOnlyFormat)
	r.IsActive = promo.IsActive
	r.UsageLimit = promo.UsageLimit
	r.UsedCount = promo.UsedCount
	r.ApplicableRoomTypes = []string(promo.ApplicableRoomTypes)
	r.BannerImage = promo.BannerImage
	r.Terms = promo.Terms
	r.Metadata.FromModel(promo.Metadata)

	if promo.PromoCode != nil {
		r.PromoCode = *promo.PromoCode
	}

	if r.ApplicableRoomTypes == nil {
		r.ApplicableRoomTypes = []string{}
	}
}

type GetPromotionsResponse struct {
	Promotions []PromotionResponse `json:"promotions"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetPromotionsResponse) FromModels(models []model.Promotion, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Promotions = make([]PromotionResponse, len(models))
	for i, mod := range models {
		r.Promotions[i].FromModel(mod)
	}
}

// ParseRange parses two calendar dates and requires end >= start.
func ParseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(constant.DateOnlyFormat, startDate)
	if err != nil {
		return start, start, failure.BadRequestFromString("start_date must be formatted as YYYY-MM-DD")
	}

	end, err := time.Parse(constant.DateOnlyFormat, endDate)
	if err != nil {
		return start, end, failure.BadRequestFromString("end_date must be formatted as YYYY-MM-DD")
	}

	if end.Before(start) {
		return start, end, failure.BadRequestFromString("end_date must not be before start_date")
	}

	return start, end, nil
}

// CodePointer stores an empty code as NULL so the unique index ignores it.
func CodePointer(code string) *string {
	code = model.NormalizeCode(code)
	if code == constant.Empty {
		return nil
	}

	return &code
}
