package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/internal/domains/auth/model/dto"
	"hotel/internal/domains/auth/service"
	userMocks "hotel/internal/domains/user/mocks"
	userModel "hotel/internal/domains/user/model"
	userDto "hotel/internal/domains/user/model/dto"
	"hotel/shared/cache"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"
	"hotel/shared/session"
)

type fixture struct {
	repo  *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
	cache *cacheMocks.MockRedisCache
	svc   service.Auth
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, &config.Config{}, f.cache, mocks.NewOtel(), f.jwt)

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func storedUser(t *testing.T, plain string) userModel.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Email:    "guest@example.com",
		Role:     userModel.Role(constant.RoleUser),
		Password: hash,
		Active:   true,
	}
}

func callerContext() context.Context {
	return session.WithSession(context.Background(), session.Session{
		UserID:    "user-1",
		Email:     "guest@example.com",
		Role:      constant.RoleUser,
		TokenID:   "jti-1",
		SessionID: "sess-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

var tokenPair = &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "creates a bronze guest",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, "guest@example.com", user.Email)
						assert.Equal(t, userModel.LoyaltyBronze, user.LoyaltyStatus)
						assert.NoError(t, password.Verify("s3cretpass", user.Password))

						return nil
					})
			},
		},
		{
			name: "duplicate email",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
			wantErr:  true,
		},
		{
			name: "insert failure",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Register(context.Background(), dto.RegisterRequest{
				Email:       "guest@example.com",
				Password:    "s3cretpass",
				DisplayName: "Guest",
			})
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(t *testing.T, f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name:     "valid credentials",
			password: "s3cretpass",
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), "user-1", "guest@example.com", constant.RoleUser).Return(tokenPair, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
		{
			name:     "last login failure does not block login",
			password: "s3cretpass",
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tokenPair, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name:     "unknown email",
			password: "s3cretpass",
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantErr:  true,
		},
		{
			name:     "wrong password",
			password: "wrongpass",
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
			},
			wantCode: http.StatusUnauthorized,
			wantErr:  true,
		},
		{
			name:     "deactivated account",
			password: "s3cretpass",
			setupMock: func(t *testing.T, f fixture) {
				user := storedUser(t, "s3cretpass")
				user.Active = false
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusForbidden,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "guest@example.com", Password: tt.password})

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, "user-1", res.User.ID)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh").Return(tokenPair, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
	})

	t.Run("rejected token is unauthorized", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "stale").Return(nil, errors.New("revoked"))

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("ends the current session", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().EndSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, claims *jwt.Claims) error {
				assert.Equal(t, "jti-1", claims.ID)
				assert.Equal(t, "sess-1", claims.SessionID)
				assert.Equal(t, "user-1", claims.UserID)

				return nil
			})

		require.NoError(t, f.svc.Logout(callerContext()))
	})

	t.Run("without a session", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Logout(context.Background())
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_RefreshAfterLogout(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.App.Name = "hotel-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	redisCache := cache.NewRedisCache(client, mocks.NewOtel())
	tokens := jwt.New(cfg, redisCache)
	svc := service.New(userMocks.NewMockUser(gomock.NewController(t)), cfg, redisCache, mocks.NewOtel(), tokens)

	ctx := context.Background()

	pair, err := tokens.GenerateTokenPair(ctx, "user-1", "guest@example.com", constant.RoleUser)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(session.WithSession(ctx, claims.Session())))

	_, err = tokens.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)

	_, err = svc.RefreshToken(ctx, dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)

	res, err := f.svc.Me(callerContext())
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", res.Email)

	_, err = f.svc.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestAuthService_UpdateMe(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.UpdateMe(callerContext(), userDto.UpdateProfileRequest{})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("writes only provided fields", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "New Name", fields[userModel.FieldDisplayName])
				assert.NotContains(t, fields, userModel.FieldPhone)

				return nil
			})

		require.NoError(t, f.svc.UpdateMe(callerContext(), userDto.UpdateProfileRequest{DisplayName: "New Name"}))
		time.Sleep(10 * time.Millisecond)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		setupMock func(t *testing.T, f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name:    "stores a new hash",
			current: "s3cretpass",
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hash, _ := fields[userModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("n3wpassword", hash))

						return nil
					})
			},
		},
		{
			name:    "wrong current password",
			current: "nope",
			setupMock: func(t *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedUser(t, "s3cretpass"), nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  true,
		},
		{
			name:    "caller no longer exists",
			current: "s3cretpass",
			setupMock: func(_ *testing.T, f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			err := f.svc.ChangePassword(callerContext(), dto.ChangePasswordRequest{
				CurrentPassword: tt.current,
				NewPassword:     "n3wpassword",
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}
