package dto

import (
	"time"

	"github.com/google/uuid"

	"hotel/internal/domains/user/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

// CreateGuestRequest lets staff register a walk-in guest. Password may be
// left empty, in which case the account cannot sign in until it is reset.
type CreateGuestRequest struct {
	Email         string              `json:"email"          validate:"required,email"`
	Password      string              `json:"password"       validate:"omitempty,min=8"`
	DisplayName   string              `json:"display_name"   validate:"omitempty,max=100"`
	Phone         string              `json:"phone"          validate:"omitempty,max=30"`
	Address       string              `json:"address"        validate:"omitempty,max=500"`
	DateOfBirth   string              `json:"date_of_birth"  validate:"omitempty,datetime=2006-01-02"`
	Nationality   string              `json:"nationality"    validate:"omitempty,max=100"`
	Preferences   model.Preferences   `json:"preferences"`
	LoyaltyStatus model.LoyaltyStatus `json:"loyalty_status" validate:"omitempty,hotel"`
	IsVIP         bool                `json:"is_vip"`
	Notes         string              `json:"notes"          validate:"omitempty,max=2000"`
}

func (c *CreateGuestRequest) ToModel(user, hashedPassword string) (model.User, error) {
	dob, err := ParseDate(c.DateOfBirth)
	if err != nil {
		return model.User{}, err
	}

	now := timezone.Now()

	return model.User{
		ID:            uuid.NewString(),
		Email:         c.Email,
		Password:      hashedPassword,
		Role:          constant.RoleUser,
		DisplayName:   c.DisplayName,
		Phone:         c.Phone,
		Address:       c.Address,
		DateOfBirth:   dob,
		Nationality:   c.Nationality,
		Preferences:   gModel.NewJSONB(c.Preferences),
		LoyaltyStatus: c.LoyaltyStatus.Or(),
		IsVIP:         c.IsVIP,
		Notes:         c.Notes,
		Active:        true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// UpdateGuestRequest is the staff edit. LoyaltyStatus overrides the computed
// tier until the next refresh.
type UpdateGuestRequest struct {
	DisplayName   string                           `db:"display_name"   json:"display_name"   validate:"omitempty,max=100"`
	PhotoURL      string                           `db:"photo_url"      json:"photo_url"      validate:"omitempty,url"`
	Phone         string                           `db:"phone"          json:"phone"          validate:"omitempty,max=30"`
	Address       string                           `db:"address"        json:"address"        validate:"omitempty,max=500"`
	DateOfBirth   string                           `db:"date_of_birth"  json:"date_of_birth"  validate:"omitempty,datetime=2006-01-02"`
	Nationality   string                           `db:"nationality"    json:"nationality"    validate:"omitempty,max=100"`
	Preferences   *gModel.JSONB[model.Preferences] `db:"preferences"    json:"preferences"`
	LoyaltyStatus model.LoyaltyStatus              `db:"loyalty_status" json:"loyalty_status" validate:"omitempty,hotel"`
	IsVIP         *bool                            `db:"is_vip"         json:"is_vip"`
	Notes         string                           `db:"notes"          json:"notes"          validate:"omitempty,max=2000"`
	Active        *bool                            `db:"active"         json:"active"`
}

// UpdateProfileRequest is what guests may change about themselves.
type UpdateProfileRequest struct {
	DisplayName string                           `db:"display_name" json:"display_name" validate:"omitempty,max=100"`
	PhotoURL    string                           `db:"photo_url"    json:"photo_url"    validate:"omitempty,url"`
	Phone       string                           `db:"phone"        json:"phone"        validate:"omitempty,max=30"`
	Preferences *gModel.JSONB[model.Preferences] `db:"preferences"  json:"preferences"`
}

type UserResponse struct {
	ID            string              `json:"id"`
	Email         string              `json:"email"`
	Role          model.Role          `json:"role"`
	DisplayName   string              `json:"display_name"`
	PhotoURL      string              `json:"photo_url"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	DateOfBirth   string              `json:"date_of_birth,omitempty"`
	Nationality   string              `json:"nationality"`
	Preferences   model.Preferences   `json:"preferences"`
	LoyaltyStatus model.LoyaltyStatus `json:"loyalty_status"`
	TotalBookings int                 `json:"total_bookings"`
	TotalSpent    float64             `json:"total_spent"`
	LastStayDate  *time.Time          `json:"last_stay_date,omitempty"`
	IsVIP         bool                `json:"is_vip"`
	Notes         string              `json:"notes,omitempty"`
	Active        bool                `json:"active"`
	LastLogin     *time.Time          `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.Role = user.Role
	r.DisplayName = user.DisplayName
	r.PhotoURL = user.PhotoURL
	r.Phone = user.Phone
	r.Address = user.Address
	r.Nationality = user.Nationality
	r.Preferences = user.Preferences.Data
	r.LoyaltyStatus = user.LoyaltyStatus.Or()
	r.TotalBookings = user.TotalBookings
	r.TotalSpent = user.TotalSpent
	r.LastStayDate = user.LastStayDate
	r.IsVIP = user.IsVIP
	r.Notes = user.Notes
	r.Active = user.Active
	r.LastLogin = user.LastLogin
	r.Metadata.FromModel(user.Metadata)

	if user.DateOfBirth != nil {
		r.DateOfBirth = user.DateOfBirth.Format(constant.DateOnlyFormat)
	}
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

func ParseDate(value string) (*time.Time, error) {
	if value == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	date, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return nil, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD")
	}

	return &date, nil
}
