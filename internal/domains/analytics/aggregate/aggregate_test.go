package aggregate_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/analytics/aggregate"
	bookingModel "hotel/internal/domains/booking/model"
	roomModel "hotel/internal/domains/room/model"
	userModel "hotel/internal/domains/user/model"
	"hotel/shared/constant"
	"hotel/shared/model"
)

var start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func booking(id, user, room string, created time.Time, amount float64, payment bookingModel.PaymentStatus, status bookingModel.BookingStatus) bookingModel.Booking {
	return bookingModel.Booking{
		ID:            id,
		UserID:        user,
		RoomID:        room,
		TotalAmount:   amount,
		PaymentStatus: payment,
		BookingStatus: status,
		Metadata:      model.Metadata{CreatedAt: created},
	}
}

func fixture() aggregate.Input {
	return aggregate.Input{
		Bookings: []bookingModel.Booking{
			booking("b1", "u1", "r1", start.AddDate(0, 0, 3), 300, bookingModel.PaymentPaid, bookingModel.StatusCheckedIn),
			booking("b2", "u1", "r2", start.AddDate(0, 1, 2), 500, bookingModel.PaymentPaid, bookingModel.StatusConfirmed),
			booking("b3", "u2", "r2", start.AddDate(0, 1, 9), 200, bookingModel.PaymentPending, ""),
			booking("b4", "u3", "r9", start.AddDate(0, 2, 1), 400, bookingModel.PaymentPaid, bookingModel.StatusCheckedIn),
			booking("old", "u4", "r1", start.AddDate(0, -1, 0), 999, bookingModel.PaymentPaid, bookingModel.StatusCheckedIn),
		},
		Guests: []userModel.User{
			{ID: "u1", Role: constant.RoleUser, LoyaltyStatus: userModel.LoyaltyGold, IsVIP: true},
			{ID: "u2", Role: constant.RoleUser},
			{ID: "u3", Role: constant.RoleUser, LoyaltyStatus: userModel.LoyaltySilver},
			{ID: "u4", Role: constant.RoleUser},
			{ID: "admin", Role: constant.RoleAdmin, IsVIP: true},
		},
		Rooms: []roomModel.Room{
			{ID: "r1", Type: "suite"},
			{ID: "r2", Type: "deluxe"},
			{ID: "r3", Type: "deluxe"},
			{ID: "r4", Type: ""},
		},
	}
}

func options() aggregate.Options {
	return aggregate.Options{
		Start:             start,
		Location:          time.UTC,
		OccupancyStatuses: []bookingModel.BookingStatus{bookingModel.StatusCheckedIn},
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    aggregate.Range
		wantErr bool
	}{
		{name: "empty uses default", value: "", want: aggregate.RangeHalfYear},
		{name: "one month", value: "1month", want: aggregate.RangeMonth},
		{name: "one year", value: "1year", want: aggregate.RangeYear},
		{name: "unknown", value: "2weeks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aggregate.ParseRange(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, aggregate.ErrUnknownRange)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange_Start(t *testing.T) {
	now := time.Date(2024, time.March, 17, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), aggregate.RangeMonth.Start(now))
	assert.Equal(t, time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC), aggregate.RangeHalfYear.Start(now))
	assert.Equal(t, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), aggregate.RangeYear.Start(now))
}

func TestBuild_Revenue(t *testing.T) {
	report := aggregate.Build(fixture(), options())

	assert.InDelta(t, 1200, report.Revenue.Total, 0.001)
	assert.Equal(t, []aggregate.MonthAmount{
		{Month: "Jan 2024", Amount: 300},
		{Month: "Feb 2024", Amount: 500},
		{Month: "Mar 2024", Amount: 400},
	}, report.Revenue.Monthly)
	assert.InDelta(t, -20, report.Revenue.Growth, 0.001)
}

func TestBuild_RevenueIgnoresEverythingButPaymentStatus(t *testing.T) {
	in := aggregate.Input{Bookings: []bookingModel.Booking{
		booking("a", "u1", "r1", start, 100, bookingModel.PaymentPaid, bookingModel.StatusCancelled),
		booking("b", "u1", "r1", start, 100, bookingModel.PaymentRefunded, bookingModel.StatusCompleted),
		booking("c", "u1", "r1", start, 100, bookingModel.PaymentPartial, bookingModel.StatusCheckedOut),
		booking("d", "u1", "r1", start, 50, bookingModel.PaymentPaid, bookingModel.StatusNoShow),
	}}

	report := aggregate.Build(in, options())

	assert.InDelta(t, 150, report.Revenue.Total, 0.001)
}

func TestBuild_StableUnderReordering(t *testing.T) {
	in := fixture()
	want := aggregate.Build(in, options())

	reversed := fixture()
	slices.Reverse(reversed.Bookings)
	slices.Reverse(reversed.Guests)
	slices.Reverse(reversed.Rooms)

	assert.Equal(t, want, aggregate.Build(reversed, options()))
}

func TestBuild_FractionalRevenueIsOrderIndependent(t *testing.T) {
	in := aggregate.Input{
		Bookings: []bookingModel.Booking{
			booking("b1", "u1", "r1", start.AddDate(0, 0, 1), 0.1, bookingModel.PaymentPaid, ""),
			booking("b2", "u2", "r1", start.AddDate(0, 0, 2), 0.2, bookingModel.PaymentPaid, ""),
			booking("b3", "u3", "r2", start.AddDate(0, 0, 3), 0.3, bookingModel.PaymentPaid, ""),
		},
		Rooms: []roomModel.Room{{ID: "r1", Type: "suite"}, {ID: "r2", Type: "suite"}},
	}

	forward := aggregate.Build(in, options())

	slices.Reverse(in.Bookings)
	backward := aggregate.Build(in, options())

	assert.Equal(t, 0.6, forward.Revenue.Total)
	assert.Equal(t, forward.Revenue, backward.Revenue)
	assert.Equal(t, []aggregate.MonthAmount{{Month: "Jan 2024", Amount: 0.6}}, backward.Revenue.Monthly)
	assert.Equal(t, []aggregate.RoomTypeRevenue{{RoomType: "suite", Revenue: 0.6}}, backward.Rooms.Revenue)
}

func TestBuild_RoomRevenueKeepsUnpaidTypes(t *testing.T) {
	in := aggregate.Input{
		Bookings: []bookingModel.Booking{
			booking("b1", "u1", "r1", start.AddDate(0, 0, 1), 250, bookingModel.PaymentPaid, ""),
			booking("b2", "u2", "r2", start.AddDate(0, 0, 2), 900, bookingModel.PaymentPending, ""),
		},
		Rooms: []roomModel.Room{{ID: "r1", Type: "suite"}, {ID: "r2", Type: "penthouse"}},
	}

	report := aggregate.Build(in, options())

	assert.Equal(t, []aggregate.RoomTypeRevenue{
		{RoomType: "suite", Revenue: 250},
		{RoomType: "penthouse", Revenue: 0},
	}, report.Rooms.Revenue)
}

func TestBuild_Bookings(t *testing.T) {
	report := aggregate.Build(fixture(), options())

	assert.Equal(t, 4, report.Bookings.Total)
	assert.Equal(t, []aggregate.MonthCount{
		{Month: "Jan 2024", Count: 1},
		{Month: "Feb 2024", Count: 2},
		{Month: "Mar 2024", Count: 1},
	}, report.Bookings.Monthly)
	assert.Equal(t, []aggregate.StatusCount{
		{Status: "checked-in", Count: 2},
		{Status: "confirmed", Count: 1},
		{Status: "pending", Count: 1},
	}, report.Bookings.ByStatus)
}

func TestBuild_Rooms(t *testing.T) {
	report := aggregate.Build(fixture(), options())

	// r1 holds a checked-in booking; r9 is not a known room but still occupies.
	assert.InDelta(t, 50, report.Rooms.OccupancyRate, 0.001)
	assert.Equal(t, []aggregate.RoomTypeCount{
		{RoomType: "deluxe", Bookings: 2},
		{RoomType: "Unknown", Bookings: 1},
		{RoomType: "suite", Bookings: 1},
	}, report.Rooms.Popular)
	assert.Equal(t, []aggregate.RoomTypeRevenue{
		{RoomType: "deluxe", Revenue: 500},
		{RoomType: "Unknown", Revenue: 400},
		{RoomType: "suite", Revenue: 300},
	}, report.Rooms.Revenue)
}

func TestBuild_Guests(t *testing.T) {
	report := aggregate.Build(fixture(), options())

	assert.Equal(t, 4, report.Guests.Total)
	assert.Equal(t, 1, report.Guests.VIP)
	assert.Equal(t, 1, report.Guests.Returning)
	assert.Equal(t, 2, report.Guests.New)
	assert.Equal(t, []aggregate.TierCount{
		{Tier: "bronze", Count: 2},
		{Tier: "silver", Count: 1},
		{Tier: "gold", Count: 1},
	}, report.Guests.LoyaltyDistribution)
}

func TestBuild_NewPlusReturningCoversEveryBookingGuest(t *testing.T) {
	in := fixture()
	report := aggregate.Build(in, options())

	distinct := make(map[string]struct{})
	for _, b := range in.Bookings {
		if !b.CreatedAt.Before(start) {
			distinct[b.UserID] = struct{}{}
		}
	}

	assert.Equal(t, len(distinct), report.Guests.New+report.Guests.Returning)
}

func TestBuild_Empty(t *testing.T) {
	report := aggregate.Build(aggregate.Input{}, aggregate.Options{Start: start})

	assert.Zero(t, report.Revenue.Total)
	assert.Zero(t, report.Revenue.Growth)
	assert.Zero(t, report.Rooms.OccupancyRate)
	assert.Empty(t, report.Bookings.Monthly)
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name    string
		monthly []aggregate.MonthAmount
		want    float64
	}{
		{name: "single month", monthly: []aggregate.MonthAmount{{Amount: 100}}, want: 0},
		{name: "previous zero", monthly: []aggregate.MonthAmount{{Amount: 0}, {Amount: 100}}, want: 0},
		{name: "doubled", monthly: []aggregate.MonthAmount{{Amount: 100}, {Amount: 200}}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, aggregate.Growth(tt.monthly), 0.001)
		})
	}
}

func TestDashboardOccupancy(t *testing.T) {
	assert.Zero(t, aggregate.DashboardOccupancy(10, 0, 30))
	assert.Zero(t, aggregate.DashboardOccupancy(10, 5, 0))
	assert.InDelta(t, 7, aggregate.DashboardOccupancy(10, 5, 30), 0.001)
}
