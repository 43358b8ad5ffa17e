package model

import (
	"time"

	"hotel/config"
	"hotel/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldUserID        = "user_id"
	FieldUserEmail     = "user_email"
	FieldUserName      = "user_name"
	FieldRoomID        = "room_id"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldTotalAmount   = "total_amount"
	FieldPaymentStatus = "payment_status"
	FieldBookingStatus = "booking_status"
	FieldPromoCode     = "promo_code"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded}

func (p PaymentStatus) Validate(*config.Config) error {
	return model.OneOf(p, PaymentStatuses...)
}

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusCheckedIn  BookingStatus = "checked-in"
	StatusCheckedOut BookingStatus = "checked-out"
	StatusNoShow     BookingStatus = "no-show"
	StatusCompleted  BookingStatus = "completed"
)

var BookingStatuses = []BookingStatus{
	StatusPending, StatusConfirmed, StatusCancelled, StatusCheckedIn,
	StatusCheckedOut, StatusNoShow, StatusCompleted,
}

func (b BookingStatus) Validate(*config.Config) error {
	return model.OneOf(b, BookingStatuses...)
}

// AddOn is a priced extra as it was sold, so later catalogue changes do not
// alter existing bookings.
type AddOn struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Booking struct {
	ID              string               `db:"id"`
	UserID          string               `db:"user_id"`
	UserEmail       string               `db:"user_email"`
	UserName        string               `db:"user_name"`
	UserPhone       string               `db:"user_phone"`
	RoomID          string               `db:"room_id"`
	CheckIn         time.Time            `db:"check_in"`
	CheckOut        time.Time            `db:"check_out"`
	Guests          int                  `db:"guests"`
	AddOns          model.JSONB[[]AddOn] `db:"add_ons"`
	PromoCode       string               `db:"promo_code"`
	Discount        float64              `db:"discount"`
	TotalAmount     float64              `db:"total_amount"`
	AmountPaid      float64              `db:"amount_paid"`
	PaymentStatus   PaymentStatus        `db:"payment_status"`
	BookingStatus   BookingStatus        `db:"booking_status"`
	SpecialRequests string               `db:"special_requests"`
	model.Metadata
}

// Status treats a booking saved without a status as pending.
func (b Booking) Status() BookingStatus {
	if b.BookingStatus == "" {
		return StatusPending
	}

	return b.BookingStatus
}

func (b Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// GuestStats summarises one guest's paid stays.
type GuestStats struct {
	TotalBookings int        `db:"total_bookings"`
	TotalSpent    float64    `db:"total_spent"`
	LastStayDate  *time.Time `db:"last_stay_date"`
}

// Summary is the all-time booking totals shown on the dashboard.
type Summary struct {
	TotalBookings int     `db:"total_bookings"`
	TotalRevenue  float64 `db:"total_revenue"`
	AverageStay   float64 `db:"average_stay"`
}
