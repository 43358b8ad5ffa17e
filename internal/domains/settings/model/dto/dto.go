package dto

import (
	"hotel/internal/domains/settings/model"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
)

// UpdateSettingsRequest changes the submitted fields only. Logo accepts an
// image data URI, which is uploaded, or a URL kept as is.
type UpdateSettingsRequest struct {
	Name               string                             `db:"name"                 json:"name"                 validate:"omitempty,max=200"`
	Description        string                             `db:"description"          json:"description"          validate:"omitempty,max=2000"`
	Address            string                             `db:"address"              json:"address"              validate:"omitempty,max=500"`
	Phone              string                             `db:"phone"                json:"phone"                validate:"omitempty,max=50"`
	Email              string                             `db:"email"                json:"email"                validate:"omitempty,email"`
	Website            string                             `db:"website"              json:"website"              validate:"omitempty,url"`
	Logo               string                             `db:"logo"                 json:"logo"`
	Currency           string                             `db:"currency"             json:"currency"             validate:"omitempty,len=3"`
	Timezone           string                             `db:"timezone"             json:"timezone"             validate:"omitempty,timezone"`
	CheckInTime        string                             `db:"check_in_time"        json:"check_in_time"        validate:"omitempty,datetime=15:04"`
	CheckOutTime       string                             `db:"check_out_time"       json:"check_out_time"       validate:"omitempty,datetime=15:04"`
	TaxRate            *float64                           `db:"tax_rate"             json:"tax_rate"             validate:"omitempty,gte=0,lte=100"`
	ServiceFee         *float64                           `db:"service_fee"          json:"service_fee"          validate:"omitempty,gte=0"`
	CancellationPolicy string                             `db:"cancellation_policy"  json:"cancellation_policy"`
	TermsAndConditions string                             `db:"terms_and_conditions" json:"terms_and_conditions"`
	Notifications      *gModel.JSONB[model.Notifications] `db:"notifications"        json:"notifications"`
	AddOns             *gModel.JSONB[[]model.AddOn]       `db:"add_ons"              json:"add_ons"`
}

type PublicSettingsResponse struct {
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Address            string        `json:"address"`
	Phone              string        `json:"phone"`
	Email              string        `json:"email"`
	Website            string        `json:"website"`
	Logo               string        `json:"logo"`
	Currency           string        `json:"currency"`
	Timezone           string        `json:"timezone"`
	CheckInTime        string        `json:"check_in_time"`
	CheckOutTime       string        `json:"check_out_time"`
	TaxRate            float64       `json:"tax_rate"`
	ServiceFee         float64       `json:"service_fee"`
	CancellationPolicy string        `json:"cancellation_policy"`
	TermsAndConditions string        `json:"terms_and_conditions"`
	AddOns             []model.AddOn `json:"add_ons"`
}

type SettingsResponse struct {
	PublicSettingsResponse
	Notifications model.Notifications `json:"notifications"`
	gDto.Metadata
}

func (r *SettingsResponse) FromModel(settings model.Settings) {
	r.Name = settings.Name
	r.Description = settings.Description
	r.Address = settings.Address
	r.Phone = settings.Phone
	r.Email = settings.Email
	r.Website = settings.Website
	r.Logo = settings.Logo
	r.Currency = settings.Currency
	r.Timezone = settings.Timezone
	r.CheckInTime = settings.CheckInTime
	r.CheckOutTime = settings.CheckOutTime
	r.TaxRate = settings.TaxRate
	r.ServiceFee = settings.ServiceFee
	r.CancellationPolicy = settings.CancellationPolicy
	r.TermsAndConditions = settings.TermsAndConditions
	r.AddOns = settings.AddOns.Data
	r.Notifications = settings.Notifications.Data
	r.Metadata.FromModel(settings.Metadata)

	if r.AddOns == nil {
		r.AddOns = []model.AddOn{}
	}
}
