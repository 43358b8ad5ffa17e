package dto

import (
	"github.com/google/uuid"

	"hotel/infras/jwt"
	userModel "hotel/internal/domains/user/model"
	userDto "hotel/internal/domains/user/model/dto"
	"hotel/shared/constant"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// ToUserModel creates a self-registered guest. Accounts created this way
// audit themselves.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	now := timezone.Now()
	id := uuid.NewString()

	return userModel.User{
		ID:            id,
		Email:         r.Email,
		Password:      hashedPassword,
		Role:          constant.RoleUser,
		DisplayName:   r.DisplayName,
		Preferences:   gModel.NewJSONB(userModel.Preferences{}),
		LoyaltyStatus: userModel.LoyaltyBronze,
		Active:        true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  id,
			ModifiedBy: id,
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

type LoginResponse struct {
	TokenResponse
	User userDto.UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,nefield=CurrentPassword"`
}
