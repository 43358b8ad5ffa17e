package dto

import (
	"time"

	"github.com/google/uuid"

	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/pricing"
	promotionModel "hotel/internal/domains/promotion/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type AddOnRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=100"`
}

// StayRequest carries everything that determines a price.
type StayRequest struct {
	RoomID    string         `json:"room_id"    validate:"required"`
	CheckIn   string         `json:"check_in"   validate:"required"`
	CheckOut  string         `json:"check_out"  validate:"required"`
	Guests    int            `json:"guests"     validate:"gte=1"`
	AddOns    []AddOnRequest `json:"add_ons"    validate:"omitempty,dive"`
	PromoCode string         `json:"promo_code" validate:"omitempty,max=50"`
}

type QuoteRequest struct {
	StayRequest
}

type CreateBookingRequest struct {
	StayRequest
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=2000"`
}

// AdminCreateBookingRequest books on behalf of an existing guest.
type AdminCreateBookingRequest struct {
	CreateBookingRequest
	UserID        string              `json:"user_id"        validate:"required"`
	BookingStatus model.BookingStatus `json:"booking_status" validate:"omitempty,hotel"`
	PaymentStatus model.PaymentStatus `json:"payment_status" validate:"omitempty,hotel"`
	AmountPaid    float64             `json:"amount_paid"    validate:"gte=0"`
}

// Guest is the contact snapshot stored on a booking.
type Guest struct {
	ID    string
	Email string
	Name  string
	Phone string
}

func (c *CreateBookingRequest) ToModel(user string, guest Guest, quote pricing.Quote, addOns []model.AddOn, checkIn, checkOut time.Time) model.Booking {
	now := timezone.Now()

	if addOns == nil {
		addOns = []model.AddOn{}
	}

	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          guest.ID,
		UserEmail:       guest.Email,
		UserName:        guest.Name,
		UserPhone:       guest.Phone,
		RoomID:          c.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          c.Guests,
		AddOns:          gModel.NewJSONB(addOns),
		PromoCode:       promotionModel.NormalizeCode(c.PromoCode),
		Discount:        quote.Discount,
		TotalAmount:     quote.Total,
		PaymentStatus:   model.PaymentPending,
		BookingStatus:   model.StatusPending,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateBookingRequest is the staff edit. Statuses may move between any two
// members. Changing dates reprices the stay.
type UpdateBookingRequest struct {
	CheckIn         string              `db:"check_in"         json:"check_in"`
	CheckOut        string              `db:"check_out"        json:"check_out"`
	Guests          *int                `db:"guests"           json:"guests"           validate:"omitempty,gte=1"`
	AmountPaid      *float64            `db:"amount_paid"      json:"amount_paid"      validate:"omitempty,gte=0"`
	PaymentStatus   model.PaymentStatus `db:"payment_status"   json:"payment_status"   validate:"omitempty,hotel"`
	BookingStatus   model.BookingStatus `db:"booking_status"   json:"booking_status"   validate:"omitempty,hotel"`
	SpecialRequests string              `db:"special_requests" json:"special_requests" validate:"omitempty,max=2000"`
	TotalAmount     *float64            `db:"total_amount"     json:"-"`
}

// ChangesStay reports whether the stay has to be priced again.
func (u *UpdateBookingRequest) ChangesStay() bool {
	return u.CheckIn != constant.Empty || u.CheckOut != constant.Empty
}

type BookingResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	UserEmail       string              `json:"user_email"`
	UserName        string              `json:"user_name"`
	UserPhone       string              `json:"user_phone"`
	RoomID          string              `json:"room_id"`
	RoomName        string              `json:"room_name"`
	RoomType        string              `json:"room_type"`
	CheckIn         time.Time           `json:"check_in"`
	CheckOut        time.Time           `json:"check_out"`
	Nights          int                 `json:"nights"`
	Guests          int                 `json:"guests"`
	AddOns          []model.AddOn       `json:"add_ons"`
	PromoCode       string              `json:"promo_code,omitempty"`
	Discount        float64             `json:"discount"`
	TotalAmount     float64             `json:"total_amount"`
	AmountPaid      float64             `json:"amount_paid"`
	PaymentStatus   model.PaymentStatus `json:"payment_status"`
	BookingStatus   model.BookingStatus `json:"booking_status"`
	SpecialRequests string              `json:"special_requests"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.UserEmail = booking.UserEmail
	r.UserName = booking.UserName
	r.UserPhone = booking.UserPhone
	r.RoomID = booking.RoomID
	r.CheckIn = timezone.ToAppTime(booking.CheckIn)
	r.CheckOut = timezone.ToAppTime(booking.CheckOut)
	r.Nights = pricing.Nights(booking.CheckIn, booking.CheckOut)
	r.Guests = booking.Guests
	r.AddOns = booking.AddOns.Data
	r.PromoCode = booking.PromoCode
	r.Discount = booking.Discount
	r.TotalAmount = booking.TotalAmount
	r.AmountPaid = booking.AmountPaid
	r.PaymentStatus = booking.PaymentStatus
	r.BookingStatus = booking.Status()
	r.SpecialRequests = booking.SpecialRequests
	r.Metadata.FromModel(booking.Metadata)

	if r.AddOns == nil {
		r.AddOns = []model.AddOn{}
	}
}

// WithRoom fills the room columns resolved from the catalogue.
func (r *BookingResponse) WithRoom(name, roomType string) {
	r.RoomName = name
	r.RoomType = roomType
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ParseStayTime accepts an RFC 3339 instant or a calendar date, which is
// read as midnight in the application time zone.
func ParseStayTime(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return t, failure.BadRequestFromString(field + " must be an RFC 3339 time or a YYYY-MM-DD date")
	}

	return t, nil
}

// ParseStay parses both ends of a stay and requires at least one night.
func ParseStay(checkIn, checkOut string) (time.Time, time.Time, int, error) {
	in, err := ParseStayTime("check_in", checkIn)
	if err != nil {
		return in, in, 0, err
	}

	out, err := ParseStayTime("check_out", checkOut)
	if err != nil {
		return in, out, 0, err
	}

	nights := pricing.Nights(in, out)
	if nights <= 0 {
		return in, out, nights, failure.BadRequestFromString("check_out must be after check_in")
	}

	return in, out, nights, nil
}
