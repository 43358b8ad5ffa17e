package model

import (
	"time"

	"hotel/config"
	"hotel/shared/constant"
	"hotel/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID            = "id"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldRole          = "role"
	FieldDisplayName   = "display_name"
	FieldPhone         = "phone"
	FieldLoyaltyStatus = "loyalty_status"
	FieldTotalBookings = "total_bookings"
	FieldTotalSpent    = "total_spent"
	FieldLastStayDate  = "last_stay_date"
	FieldIsVIP         = "is_vip"
	FieldActive        = "active"
	FieldLastLogin     = "last_login"
)

type LoyaltyStatus string

const (
	LoyaltyBronze   LoyaltyStatus = "bronze"
	LoyaltySilver   LoyaltyStatus = "silver"
	LoyaltyGold     LoyaltyStatus = "gold"
	LoyaltyPlatinum LoyaltyStatus = "platinum"
)

var LoyaltyStatuses = []LoyaltyStatus{LoyaltyBronze, LoyaltySilver, LoyaltyGold, LoyaltyPlatinum}

func (l LoyaltyStatus) Validate(*config.Config) error {
	return model.OneOf(l, LoyaltyStatuses...)
}

// Or treats an unset tier as bronze.
func (l LoyaltyStatus) Or() LoyaltyStatus {
	if l == "" {
		return LoyaltyBronze
	}

	return l
}

// TierFor maps a guest's paid spend onto the configured thresholds.
func TierFor(cfg *config.Config, spent float64) LoyaltyStatus {
	switch {
	case spent >= cfg.Loyalty.Platinum:
		return LoyaltyPlatinum
	case spent >= cfg.Loyalty.Gold:
		return LoyaltyGold
	case spent >= cfg.Loyalty.Silver:
		return LoyaltySilver
	default:
		return LoyaltyBronze
	}
}

type Role string

var Roles = []Role{constant.RoleUser, constant.RoleAdmin, constant.RoleSuperAdmin}

func (r Role) Validate(*config.Config) error {
	return model.OneOf(r, Roles...)
}

func (r Role) IsAdmin() bool {
	return r == constant.RoleAdmin || r == constant.RoleSuperAdmin
}

type Preferences struct {
	FavoriteRoomType    string   `json:"favorite_room_type,omitempty"`
	SpecialRequests     []string `json:"special_requests,omitempty"`
	DietaryRestrictions string   `json:"dietary_restrictions,omitempty"`
	BedPreference       string   `json:"bed_preference,omitempty"`
}

type User struct {
	ID            string                   `db:"id"`
	Email         string                   `db:"email"`
	Password      string                   `db:"password"`
	Role          Role                     `db:"role"`
	DisplayName   string                   `db:"display_name"`
	PhotoURL      string                   `db:"photo_url"`
	Phone         string                   `db:"phone"`
	Address       string                   `db:"address"`
	DateOfBirth   *time.Time               `db:"date_of_birth"`
	Nationality   string                   `db:"nationality"`
	Preferences   model.JSONB[Preferences] `db:"preferences"`
	LoyaltyStatus LoyaltyStatus            `db:"loyalty_status"`
	TotalBookings int                      `db:"total_bookings"`
	TotalSpent    float64                  `db:"total_spent"`
	LastStayDate  *time.Time               `db:"last_stay_date"`
	IsVIP         bool                     `db:"is_vip"`
	Notes         string                   `db:"notes"`
	Active        bool                     `db:"active"`
	LastLogin     *time.Time               `db:"last_login"`
	model.Metadata
}
