package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel/infras/jwt"
	"hotel/internal/domains/auth/model/dto"
	userModel "hotel/internal/domains/user/model"
	"hotel/shared/constant"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{Email: "guest@example.com", Password: "password1", DisplayName: "Ada"}

	user := req.ToUserModel("hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, userModel.Role(constant.RoleUser), user.Role)
	assert.Equal(t, userModel.LoyaltyBronze, user.LoyaltyStatus)
	assert.True(t, user.Active)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.Equal(t, "Ada", user.DisplayName)
}

func TestTokenResponse_FromTokenPair(t *testing.T) {
	var res dto.TokenResponse
	res.FromTokenPair(&jwt.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900})

	assert.Equal(t, dto.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, res)
}
