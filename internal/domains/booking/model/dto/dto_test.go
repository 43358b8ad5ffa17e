package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/pricing"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
)

func TestParseStay(t *testing.T) {
	tests := []struct {
		name       string
		checkIn    string
		checkOut   string
		wantNights int
		wantErr    bool
	}{
		{name: "calendar dates", checkIn: "2024-01-01", checkOut: "2024-01-04", wantNights: 3},
		{name: "instants round up", checkIn: "2024-01-01T14:00:00Z", checkOut: "2024-01-02T11:00:00Z", wantNights: 1},
		{name: "zero nights", checkIn: "2024-01-01", checkOut: "2024-01-01", wantErr: true},
		{name: "inverted", checkIn: "2024-01-04", checkOut: "2024-01-01", wantErr: true},
		{name: "malformed", checkIn: "01/01/2024", checkOut: "2024-01-04", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, nights, err := dto.ParseStay(tt.checkIn, tt.checkOut)

			if tt.wantErr {
				assert.Equal(t, 400, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNights, nights)
		})
	}
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		StayRequest:     dto.StayRequest{RoomID: "room-1", Guests: 2, PromoCode: " spring "},
		SpecialRequests: "late arrival",
	}
	checkIn := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	quote := pricing.NewQuote(100, 3, nil).WithDiscount(20)

	booking := req.ToModel("guest-1", dto.Guest{ID: "guest-1", Email: "a@b.c"}, quote, nil, checkIn, checkIn.AddDate(0, 0, 3))

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "SPRING", booking.PromoCode)
	assert.InDelta(t, 280.0, booking.TotalAmount, 0.0001)
	assert.Equal(t, model.StatusPending, booking.BookingStatus)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	assert.NotNil(t, booking.AddOns.Data)
}

func TestBookingResponse_FromModel(t *testing.T) {
	checkIn := time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC)

	var res dto.BookingResponse
	res.FromModel(model.Booking{
		ID:       "b-1",
		CheckIn:  checkIn,
		CheckOut: checkIn.Add(49 * time.Hour),
		AddOns:   gModel.JSONB[[]model.AddOn]{},
	})

	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, model.StatusPending, res.BookingStatus)
	assert.Equal(t, []model.AddOn{}, res.AddOns)
}
