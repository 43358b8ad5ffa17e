package model

import (
	"strings"

	"hotel/shared/model"
)

const (
	TableName  = "hotel_settings"
	EntityName = "settings"

	FieldID   = "id"
	FieldLogo = "logo"

	// DefaultID is the key of the single settings row.
	DefaultID = "default"
)

type AddOn struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
}

type Notifications struct {
	EmailNotifications   bool `json:"email_notifications"`
	BookingConfirmations bool `json:"booking_confirmations"`
	PaymentReminders     bool `json:"payment_reminders"`
	MarketingEmails      bool `json:"marketing_emails"`
}

type Settings struct {
	ID                 string                     `db:"id"`
	Name               string                     `db:"name"`
	Description        string                     `db:"description"`
	Address            string                     `db:"address"`
	Phone              string                     `db:"phone"`
	Email              string                     `db:"email"`
	Website            string                     `db:"website"`
	Logo               string                     `db:"logo"`
	Currency           string                     `db:"currency"`
	Timezone           string                     `db:"timezone"`
	CheckInTime        string                     `db:"check_in_time"`
	CheckOutTime       string                     `db:"check_out_time"`
	TaxRate            float64                    `db:"tax_rate"`
	ServiceFee         float64                    `db:"service_fee"`
	CancellationPolicy string                     `db:"cancellation_policy"`
	TermsAndConditions string                     `db:"terms_and_conditions"`
	Notifications      model.JSONB[Notifications] `db:"notifications"`
	AddOns             model.JSONB[[]AddOn]       `db:"add_ons"`
	model.Metadata
}

// Default mirrors the row seeded by the migrations.
func Default() Settings {
	return Settings{
		ID:           DefaultID,
		Currency:     "USD",
		CheckInTime:  "14:00",
		CheckOutTime: "11:00",
		Notifications: model.NewJSONB(Notifications{
			EmailNotifications:   true,
			BookingConfirmations: true,
			PaymentReminders:     true,
		}),
		AddOns: model.NewJSONB([]AddOn{
			{Name: "Continental Breakfast", Price: 25, Description: "Daily breakfast for every guest"},
			{Name: "Spa Package", Price: 75, Description: "One spa session"},
			{Name: "Airport Transfer", Price: 50, Description: "One-way airport pickup"},
			{Name: "Late Checkout", Price: 30, Description: "Check out as late as 15:00"},
		}),
	}
}

// AddOnPrice looks an add-on up by name, ignoring case and surrounding spaces.
func (s Settings) AddOnPrice(name string) (float64, bool) {
	name = strings.TrimSpace(name)

	for _, addOn := range s.AddOns.Data {
		if strings.EqualFold(addOn.Name, name) {
			return addOn.Price, true
		}
	}

	return 0, false
}
