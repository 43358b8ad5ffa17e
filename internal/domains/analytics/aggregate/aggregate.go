// Package aggregate turns bookings, guests and rooms into the analytics
// report. It performs no I/O and every metric is independent of input order.
package aggregate

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"time"

	bookingModel "hotel/internal/domains/booking/model"
	roomModel "hotel/internal/domains/room/model"
	userModel "hotel/internal/domains/user/model"
	"hotel/shared/constant"
)

const UnknownRoomType = "Unknown"

type Range string

const (
	RangeMonth    Range = "1month"
	RangeQuarter  Range = "3months"
	RangeHalfYear Range = "6months"
	RangeYear     Range = "1year"
	DefaultRange        = RangeHalfYear
)

var rangeMonths = map[Range]int{
	RangeMonth:    1,
	RangeQuarter:  3,
	RangeHalfYear: 6,
	RangeYear:     12,
}

var ErrUnknownRange = errors.New("range must be one of 1month, 3months, 6months, 1year")

// ParseRange accepts an empty value as the default range.
func ParseRange(value string) (Range, error) {
	if value == constant.Empty {
		return DefaultRange, nil
	}

	r := Range(value)
	if _, ok := rangeMonths[r]; !ok {
		return constant.Empty, ErrUnknownRange
	}

	return r, nil
}

// Start is midnight on the first day of the month lying the range's number
// of months before now, in now's location.
func (r Range) Start(now time.Time) time.Time {
	months, ok := rangeMonths[r]
	if !ok {
		months = rangeMonths[DefaultRange]
	}

	return time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, now.Location())
}

type Input struct {
	Bookings []bookingModel.Booking
	Guests   []userModel.User
	Rooms    []roomModel.Room
}

type Options struct {
	Start             time.Time
	Location          *time.Location
	OccupancyStatuses []bookingModel.BookingStatus
}

type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type RoomTypeCount struct {
	RoomType string `json:"room_type"`
	Bookings int    `json:"bookings"`
}

type RoomTypeRevenue struct {
	RoomType string  `json:"room_type"`
	Revenue  float64 `json:"revenue"`
}

type TierCount struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

type Revenue struct {
	Total   float64       `json:"total"`
	Monthly []MonthAmount `json:"monthly"`
	Growth  float64       `json:"growth"`
}

type Bookings struct {
	Total    int           `json:"total"`
	Monthly  []MonthCount  `json:"monthly"`
	ByStatus []StatusCount `json:"by_status"`
}

type Rooms struct {
	OccupancyRate float64           `json:"occupancy_rate"`
	Popular       []RoomTypeCount   `json:"popular"`
	Revenue       []RoomTypeRevenue `json:"revenue"`
}

type Guests struct {
	Total               int         `json:"total"`
	New                 int         `json:"new"`
	Returning           int         `json:"returning"`
	VIP                 int         `json:"vip"`
	LoyaltyDistribution []TierCount `json:"loyalty_distribution"`
}

type Report struct {
	Revenue  Revenue  `json:"revenue"`
	Bookings Bookings `json:"bookings"`
	Rooms    Rooms    `json:"rooms"`
	Guests   Guests   `json:"guests"`
}

// Build computes the report for bookings created at or after opt.Start.
func Build(in Input, opt Options) Report {
	if opt.Location == nil {
		opt.Location = time.UTC
	}

	window := make([]bookingModel.Booking, 0, len(in.Bookings))
	for _, booking := range in.Bookings {
		if !booking.CreatedAt.Before(opt.Start) {
			window = append(window, booking)
		}
	}

	return Report{
		Revenue:  buildRevenue(window, opt.Location),
		Bookings: buildBookings(window, opt.Location),
		Rooms:    buildRooms(window, in.Rooms, opt.OccupancyStatuses),
		Guests:   buildGuests(window, in.Guests),
	}
}

// DashboardOccupancy spreads every booking over the room nights of a fixed
// period and rounds to a whole percent.
func DashboardOccupancy(totalBookings, totalRooms, days int) float64 {
	if totalRooms <= 0 || days <= 0 {
		return 0
	}

	return math.Round(float64(totalBookings) / float64(totalRooms*days) * 100)
}

func buildRevenue(bookings []bookingModel.Booking, loc *time.Location) Revenue {
	var res Revenue

	var total int64

	months := newMonths[int64](loc)

	for _, booking := range bookings {
		if !booking.IsPaid() {
			continue
		}

		amount := toCents(booking.TotalAmount)
		total += amount
		*months.at(booking.CreatedAt) += amount
	}

	res.Total = fromCents(total)

	for _, m := range months.sorted() {
		res.Monthly = append(res.Monthly, MonthAmount{Month: m.label, Amount: fromCents(m.value)})
	}

	res.Growth = Growth(res.Monthly)

	return res
}

// Amounts are summed in whole cents so totals do not depend on the order
// bookings arrive in.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Growth compares the last month with the one before it, in percent. It is 0
// with fewer than two months or when the earlier month earned nothing.
func Growth(monthly []MonthAmount) float64 {
	if len(monthly) < 2 {
		return 0
	}

	last, previous := monthly[len(monthly)-1].Amount, monthly[len(monthly)-2].Amount
	if previous == 0 {
		return 0
	}

	return (last - previous) / previous * 100
}

func buildBookings(bookings []bookingModel.Booking, loc *time.Location) Bookings {
	res := Bookings{Total: len(bookings)}

	months := newMonths[int](loc)
	statuses := make(map[string]int)

	for _, booking := range bookings {
		*months.at(booking.CreatedAt)++
		statuses[string(booking.Status())]++
	}

	for _, m := range months.sorted() {
		res.Monthly = append(res.Monthly, MonthCount{Month: m.label, Count: m.value})
	}

	for status, count := range statuses {
		res.ByStatus = append(res.ByStatus, StatusCount{Status: status, Count: count})
	}

	slices.SortFunc(res.ByStatus, func(a, b StatusCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Status, b.Status))
	})

	return res
}

func buildRooms(bookings []bookingModel.Booking, rooms []roomModel.Room, occupying []bookingModel.BookingStatus) Rooms {
	var res Rooms

	types := make(map[string]string, len(rooms))
	for _, room := range rooms {
		types[room.ID] = room.Type
	}

	popular := make(map[string]int)
	revenue := make(map[string]int64)
	occupied := make(map[string]struct{})

	for _, booking := range bookings {
		roomType, ok := types[booking.RoomID]
		if !ok || roomType == constant.Empty {
			roomType = UnknownRoomType
		}

		popular[roomType]++

		var paid int64
		if booking.IsPaid() {
			paid = toCents(booking.TotalAmount)
		}

		// Types without paid bookings are still listed, at zero.
		revenue[roomType] += paid

		if slices.Contains(occupying, booking.Status()) {
			occupied[booking.RoomID] = struct{}{}
		}
	}

	if len(rooms) > 0 {
		res.OccupancyRate = float64(len(occupied)) / float64(len(rooms)) * 100
	}

	for roomType, count := range popular {
		res.Popular = append(res.Popular, RoomTypeCount{RoomType: roomType, Bookings: count})
	}

	slices.SortFunc(res.Popular, func(a, b RoomTypeCount) int {
		return cmp.Or(cmp.Compare(b.Bookings, a.Bookings), cmp.Compare(a.RoomType, b.RoomType))
	})

	for roomType, amount := range revenue {
		res.Revenue = append(res.Revenue, RoomTypeRevenue{RoomType: roomType, Revenue: fromCents(amount)})
	}

	slices.SortFunc(res.Revenue, func(a, b RoomTypeRevenue) int {
		return cmp.Or(cmp.Compare(b.Revenue, a.Revenue), cmp.Compare(a.RoomType, b.RoomType))
	})

	return res
}

func buildGuests(bookings []bookingModel.Booking, guests []userModel.User) Guests {
	var res Guests

	perGuest := make(map[string]int)
	for _, booking := range bookings {
		if booking.UserID != constant.Empty {
			perGuest[booking.UserID]++
		}
	}

	for _, count := range perGuest {
		if count > 1 {
			res.Returning++
		} else {
			res.New++
		}
	}

	tiers := make(map[userModel.LoyaltyStatus]int)

	for _, guest := range guests {
		if string(guest.Role) != constant.RoleUser {
			continue
		}

		res.Total++

		if guest.IsVIP {
			res.VIP++
		}

		tiers[guest.LoyaltyStatus.Or()]++
	}

	for tier, count := range tiers {
		res.LoyaltyDistribution = append(res.LoyaltyDistribution, TierCount{Tier: string(tier), Count: count})
	}

	slices.SortFunc(res.LoyaltyDistribution, func(a, b TierCount) int {
		return cmp.Or(cmp.Compare(tierRank(a.Tier), tierRank(b.Tier)), cmp.Compare(a.Tier, b.Tier))
	})

	return res
}

func tierRank(tier string) int {
	if idx := slices.Index(userModel.LoyaltyStatuses, userModel.LoyaltyStatus(tier)); idx >= 0 {
		return idx
	}

	return len(userModel.LoyaltyStatuses)
}

type month[V int | int64] struct {
	start time.Time
	label string
	value V
}

// months groups values by calendar month in a fixed location.
type months[V int | int64] struct {
	loc     *time.Location
	buckets map[time.Time]*month[V]
}

func newMonths[V int | int64](loc *time.Location) *months[V] {
	return &months[V]{loc: loc, buckets: make(map[time.Time]*month[V])}
}

func (m *months[V]) at(t time.Time) *V {
	local := t.In(m.loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, m.loc)

	bucket, ok := m.buckets[start]
	if !ok {
		bucket = &month[V]{start: start, label: start.Format(constant.MonthFormat)}
		m.buckets[start] = bucket
	}

	return &bucket.value
}

func (m *months[V]) sorted() []month[V] {
	res := make([]month[V], 0, len(m.buckets))
	for _, bucket := range m.buckets {
		res = append(res, *bucket)
	}

	slices.SortFunc(res, func(a, b month[V]) int {
		return a.start.Compare(b.start)
	})

	return res
}
