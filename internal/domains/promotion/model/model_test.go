package model_test

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/promotion/model"
	"hotel/shared/timezone"
)

func day(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestPromotion_IsActiveOn(t *testing.T) {
	promo := model.Promotion{IsActive: true, StartDate: day("2024-03-01"), EndDate: day("2024-03-10")}
	loc := timezone.GetLocation()

	tests := []struct {
		name  string
		promo model.Promotion
		now   time.Time
		want  bool
	}{
		{name: "first day", promo: promo, now: time.Date(2024, 3, 1, 0, 0, 1, 0, loc), want: true},
		{name: "last day late evening", promo: promo, now: time.Date(2024, 3, 10, 23, 59, 0, 0, loc), want: true},
		{name: "day after end", promo: promo, now: time.Date(2024, 3, 11, 0, 0, 0, 0, loc)},
		{name: "day before start", promo: promo, now: time.Date(2024, 2, 29, 23, 0, 0, 0, loc)},
		{
			name:  "inactive flag",
			promo: model.Promotion{StartDate: promo.StartDate, EndDate: promo.EndDate},
			now:   time.Date(2024, 3, 5, 12, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.IsActiveOn(tt.now))
		})
	}
}

func TestPromotion_Discount(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, timezone.GetLocation())
	base := model.Promotion{IsActive: true, StartDate: day("2024-03-01"), EndDate: day("2024-03-10")}

	with := func(mutate func(p *model.Promotion)) model.Promotion {
		p := base
		mutate(&p)

		return p
	}

	tests := []struct {
		name     string
		promo    model.Promotion
		subtotal float64
		roomType string
		want     float64
		wantErr  error
	}{
		{
			name: "percentage",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue = model.DiscountPercentage, 10
			}),
			subtotal: 300,
			want:     30,
		},
		{
			name: "percentage capped by maximum discount",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue, p.MaximumDiscount = model.DiscountPercentage, 50, 40
			}),
			subtotal: 300,
			want:     40,
		},
		{
			name: "flat never exceeds subtotal",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue = model.DiscountFlat, 500
			}),
			subtotal: 120,
			want:     120,
		},
		{
			name: "minimum spend not reached",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue, p.MinimumSpend = model.DiscountFixed, 20, 200
			}),
			subtotal: 150,
			wantErr:  model.ErrMinimumSpend,
		},
		{
			name: "room type not eligible",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue = model.DiscountFixed, 20
				p.ApplicableRoomTypes = pq.StringArray{"Suite"}
			}),
			subtotal: 150,
			roomType: "Standard",
			wantErr:  model.ErrRoomTypeNotEligible,
		},
		{
			name: "room type matched ignoring case",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue = model.DiscountFixed, 20
				p.ApplicableRoomTypes = pq.StringArray{"Suite"}
			}),
			subtotal: 150,
			roomType: "suite",
			want:     20,
		},
		{
			name: "usage limit reached",
			promo: with(func(p *model.Promotion) {
				p.DiscountType, p.DiscountValue, p.UsageLimit, p.UsedCount = model.DiscountFixed, 20, 5, 5
			}),
			subtotal: 150,
			wantErr:  model.ErrUsageLimitReached,
		},
		{
			name:     "inactive",
			promo:    with(func(p *model.Promotion) { p.IsActive = false }),
			subtotal: 150,
			wantErr:  model.ErrNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.promo.Discount(tt.subtotal, tt.roomType, now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
