package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	userMocks "hotel/internal/domains/user/mocks"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"
)

type fixture struct {
	repo  *userMocks.MockUser
	stays *userMocks.MockStayHistory
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Loyalty.Silver = 20000
	cfg.Loyalty.Gold = 50000
	cfg.Loyalty.Platinum = 100000

	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		stays: userMocks.NewMockStayHistory(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.stays, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateGuestRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "hashes the given password",
			req:  dto.CreateGuestRequest{Email: "guest@example.com", Password: "s3cretpass"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.NoError(t, password.Verify("s3cretpass", user.Password))
						assert.Equal(t, model.Role(constant.RoleUser), user.Role)

						return nil
					})
			},
		},
		{
			name: "without a password the account gets an unusable hash",
			req:  dto.CreateGuestRequest{Email: "walkin@example.com"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.NotEmpty(t, user.Password)
						assert.Error(t, password.Verify(constant.Empty, user.Password))

						return nil
					})
			},
		},
		{
			name: "email already registered",
			req:  dto.CreateGuestRequest{Email: "guest@example.com"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			id, err := f.svc.Create(adminContext(), tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestUserService_GetAll_OnlyGuests(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.User, error) {
			_, args := filter.GetWhereClause()
			assert.Contains(t, args, model.FieldRole)

			return []model.User{{ID: "u-1", Email: "guest@example.com", Role: constant.RoleUser}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.NewFilterGroup())
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Users, 1)
	assert.Equal(t, model.LoyaltyBronze, res.Users[0].LoyaltyStatus)
}

func TestUserService_Update(t *testing.T) {
	vip := true

	tests := []struct {
		name      string
		req       dto.UpdateGuestRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "marks a guest as VIP",
			req:  dto.UpdateGuestRequest{IsVIP: &vip, Notes: "prefers quiet rooms"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1"}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, &vip, fields[model.FieldIsVIP])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateGuestRequest{},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
		{
			name:      "malformed birth date",
			req:       dto.UpdateGuestRequest{DateOfBirth: "1990/01/01"},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
		{
			name: "unknown guest",
			req:  dto.UpdateGuestRequest{Notes: "x"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(adminContext(), tt.req, "u-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestUserService_RefreshLoyalty(t *testing.T) {
	lastStay := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		stats     bookingModel.GuestStats
		wantTier  model.LoyaltyStatus
		wantSpent float64
	}{
		{
			name:      "no paid stays stays bronze",
			stats:     bookingModel.GuestStats{},
			wantTier:  model.LoyaltyBronze,
			wantSpent: 0,
		},
		{
			name:      "crosses the gold threshold",
			stats:     bookingModel.GuestStats{TotalBookings: 12, TotalSpent: 64000, LastStayDate: &lastStay},
			wantTier:  model.LoyaltyGold,
			wantSpent: 64000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
				Return(model.User{ID: "u-1", LoyaltyStatus: model.LoyaltyPlatinum}, nil).Times(2)
			f.stays.EXPECT().GuestStats(gomock.Any(), "u-1").Return(tt.stats, nil).Times(2)
			f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, tt.wantTier, fields[model.FieldLoyaltyStatus])
					assert.InDelta(t, tt.wantSpent, fields[model.FieldTotalSpent], 0.001)

					return nil
				}).Times(2)

			first, err := f.svc.RefreshLoyalty(adminContext(), "u-1")
			require.NoError(t, err)

			second, err := f.svc.RefreshLoyalty(adminContext(), "u-1")
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)

			assert.Equal(t, first, second)
			assert.Equal(t, tt.wantTier, first.LoyaltyStatus)
			assert.Equal(t, tt.stats.TotalBookings, first.TotalBookings)
		})
	}
}

func TestUserService_RefreshLoyalty_HistoryFailure(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1"}, nil)
	f.stays.EXPECT().GuestStats(gomock.Any(), "u-1").Return(bookingModel.GuestStats{}, errors.New("db down"))

	_, err := f.svc.RefreshLoyalty(adminContext(), "u-1")
	assert.Equal(t, 500, failure.GetCode(err))
}
