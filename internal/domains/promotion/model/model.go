package model

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"

	"hotel/config"
	"hotel/shared/model"
	"hotel/shared/timezone"
)

const (
	TableName  = "promotions"
	EntityName = "promotion"

	FieldID           = "id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPromoCode    = "promo_code"
	FieldDiscountType = "discount_type"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldIsActive     = "is_active"
	FieldBannerImage  = "banner_image"
)

var (
	ErrNotActive           = errors.New("promotion is not active")
	ErrMinimumSpend        = errors.New("minimum spend for this promotion is not reached")
	ErrRoomTypeNotEligible = errors.New("promotion does not apply to this room type")
	ErrUsageLimitReached   = errors.New("promotion usage limit reached")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountFlat       DiscountType = "flat"
)

var DiscountTypes = []DiscountType{DiscountPercentage, DiscountFixed, DiscountFlat}

func (d DiscountType) Validate(*config.Config) error {
	return model.OneOf(d, DiscountTypes...)
}

type Promotion struct {
	ID                  string         `db:"id"`
	Title               string         `db:"title"`
	Description         string         `db:"description"`
	PromoCode           *string        `db:"promo_code"`
	DiscountType        DiscountType   `db:"discount_type"`
	DiscountValue       float64        `db:"discount_value"`
	MinimumSpend        float64        `db:"minimum_spend"`
	MaximumDiscount     float64        `db:"maximum_discount"`
	StartDate           time.Time      `db:"start_date"`
	EndDate             time.Time      `db:"end_date"`
	IsActive            bool           `db:"is_active"`
	UsageLimit          int            `db:"usage_limit"`
	UsedCount           int            `db:"used_count"`
	ApplicableRoomTypes pq.StringArray `db:"applicable_room_types"`
	BannerImage         string         `db:"banner_image"`
	Terms               string         `db:"terms"`
	model.Metadata
}

// NormalizeCode gives promo codes one canonical spelling.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsActiveOn compares calendar dates in the application time zone, so a
// promotion ending today is still offered for the rest of the day.
func (p Promotion) IsActiveOn(now time.Time) bool {
	if !p.IsActive {
		return false
	}

	today := timezone.Date(now)

	return !today.Before(calendarDay(p.StartDate)) && !today.After(calendarDay(p.EndDate))
}

// Discount returns the amount taken off subtotal for a room of roomType.
// The result never exceeds subtotal.
func (p Promotion) Discount(subtotal float64, roomType string, now time.Time) (float64, error) {
	if !p.IsActiveOn(now) {
		return 0, ErrNotActive
	}

	if p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit {
		return 0, ErrUsageLimitReached
	}

	if subtotal < p.MinimumSpend {
		return 0, ErrMinimumSpend
	}

	if len(p.ApplicableRoomTypes) > 0 && !slices.ContainsFunc(p.ApplicableRoomTypes, func(t string) bool {
		return strings.EqualFold(t, roomType)
	}) {
		return 0, ErrRoomTypeNotEligible
	}

	var discount float64

	switch p.DiscountType {
	case DiscountPercentage:
		discount = subtotal * p.DiscountValue / 100
		if p.MaximumDiscount > 0 {
			discount = math.Min(discount, p.MaximumDiscount)
		}
	case DiscountFixed, DiscountFlat:
		discount = p.DiscountValue
	}

	return math.Max(0, math.Min(discount, subtotal)), nil
}

// calendarDay reads a DATE column value as a day in the application time zone.
func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, timezone.GetLocation())
}
