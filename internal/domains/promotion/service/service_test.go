package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/infras/s3"
	s3Mocks "hotel/infras/s3/mocks"
	promotionMocks "hotel/internal/domains/promotion/mocks"
	"hotel/internal/domains/promotion/model"
	"hotel/internal/domains/promotion/model/dto"
	"hotel/internal/domains/promotion/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

type fixture struct {
	repo  *promotionMocks.MockPromotion
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Promotion
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  promotionMocks.NewMockPromotion(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestPromotionService_Create(t *testing.T) {
	valid := dto.CreatePromotionRequest{
		Title:         "Spring Sale",
		PromoCode:     " spring24 ",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 15,
		StartDate:     "2024-03-01",
		EndDate:       "2024-03-31",
	}

	tests := []struct {
		name      string
		req       dto.CreatePromotionRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "stores a normalized code",
			req:  valid,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, promo model.Promotion) error {
						require.NotNil(t, promo.PromoCode)
						assert.Equal(t, "SPRING24", *promo.PromoCode)
						assert.True(t, promo.IsActive)
						assert.Equal(t, pq.StringArray{}, promo.ApplicableRoomTypes)

						return nil
					})
			},
		},
		{
			name: "duplicate code is a conflict",
			req:  valid,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
		{
			name: "inverted date range",
			req: dto.CreatePromotionRequest{
				Title:         "Backwards",
				DiscountType:  model.DiscountFixed,
				DiscountValue: 10,
				StartDate:     "2024-03-10",
				EndDate:       "2024-03-01",
			},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
		{
			name: "percentage above 100",
			req: dto.CreatePromotionRequest{
				Title:         "Too generous",
				DiscountType:  model.DiscountPercentage,
				DiscountValue: 120,
				StartDate:     "2024-03-01",
				EndDate:       "2024-03-10",
			},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(adminContext(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPromotionService_Offers(t *testing.T) {
	f := newFixture(t)

	today := timezone.Now()
	running := model.Promotion{
		ID:        "promo-1",
		IsActive:  true,
		StartDate: today.AddDate(0, 0, -1),
		EndDate:   today,
	}
	expired := model.Promotion{
		ID:        "promo-2",
		IsActive:  true,
		StartDate: today.AddDate(0, 0, -10),
		EndDate:   today.AddDate(0, 0, -2),
	}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Promotion, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "promotions.is_active = :is_active")
			assert.Equal(t, true, args["is_active"])

			return []model.Promotion{running, expired}, nil
		})

	res, err := f.svc.Offers(context.Background())

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "promo-1", res[0].ID)
}

func TestPromotionService_Update(t *testing.T) {
	current := model.Promotion{
		ID:            "promo-1",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		req       dto.UpdatePromotionRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "moves the end date",
			req:  dto.UpdatePromotionRequest{EndDate: "2024-04-15"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "2024-04-15", fields[model.FieldEndDate])

						return nil
					})
			},
		},
		{
			name: "end date before stored start date",
			req:  dto.UpdatePromotionRequest{EndDate: "2024-02-01"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			},
			wantCode: 400,
		},
		{
			name: "not found",
			req:  dto.UpdatePromotionRequest{Title: "New title"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Promotion{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(adminContext(), tt.req, "promo-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPromotionService_UploadBanner(t *testing.T) {
	f := newFixture(t)
	banner := &multipart.FileHeader{Filename: "banner.webp"}

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(model.Promotion{ID: "promo-1", BannerImage: "https://cdn.example.com/promotions/old.webp"}, nil)
	f.s3.EXPECT().Upload(gomock.Any(), "promotions", banner).
		Return(s3.Object{URL: "https://cdn.example.com/promotions/new.webp"}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "https://cdn.example.com/promotions/new.webp", fields[model.FieldBannerImage])

			return nil
		})
	f.s3.EXPECT().KeyFromURL("https://cdn.example.com/promotions/old.webp").Return("promotions/old.webp")
	f.s3.EXPECT().Delete(gomock.Any(), "promotions/old.webp").Return(nil)

	err := f.svc.UploadBanner(adminContext(), banner, "promo-1")

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, err)
}
