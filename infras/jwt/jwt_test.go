package jwt_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel/mocks"
	"hotel/shared/cache"
	"hotel/shared/constant"
)

func newService(t *testing.T) jwt.JWT {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.App.Name = "hotel-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg, cache.NewRedisCache(client, mocks.NewOtel()))
}

func TestJWT_GenerateAndValidate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u-1", "guest@hotel.test", constant.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, constant.RoleUser, claims.Session().Role)
	assert.False(t, claims.Session().ExpiresAt.IsZero())

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestJWT_RevokeTearsDownSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u-1", "guest@hotel.test", constant.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)
}

func TestJWT_RefreshRotatesPair(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u-1", "admin@hotel.test", constant.RoleAdmin)
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constant.RoleAdmin, claims.Role)

	original, err := svc.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	require.Error(t, err)
	assert.Nil(t, original)

	_, err = svc.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)
}

func TestJWT_EndSessionRevokesRefreshTokens(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "u-1", "guest@hotel.test", constant.RoleUser)
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, claims.SessionID)

	require.NoError(t, svc.EndSession(ctx, jwt.ClaimsFromSession(claims.Session())))

	_, err = svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)

	_, err = svc.RefreshTokens(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)

	other, err := svc.GenerateTokenPair(ctx, "u-1", "guest@hotel.test", constant.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, other.AccessToken, jwt.AccessToken)
	assert.NoError(t, err, "a new sign-in starts a new session")
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def", want: "abc.def"},
		{name: "empty header", header: "", wantErr: true},
		{name: "missing prefix", header: "Token abc", wantErr: true},
		{name: "prefix only", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
