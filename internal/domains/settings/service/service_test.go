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
	"hotel/infras/s3"
	s3Mocks "hotel/infras/s3/mocks"
	settingsMocks "hotel/internal/domains/settings/mocks"
	"hotel/internal/domains/settings/model"
	"hotel/internal/domains/settings/model/dto"
	"hotel/internal/domains/settings/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

// 1x1 transparent png.
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestSettingsService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), s3Mocks.NewMockS3(ctrl))

	tests := []struct {
		name       string
		setupMock  func()
		wantAddOns int
		wantName   string
	}{
		{
			name: "stored row",
			setupMock: func() {
				stored := model.Default()
				stored.Name = "Seaside Resort"

				mockCache.EXPECT().Get(gomock.Any(), "settings:get", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				mockCache.EXPECT().Save(gomock.Any(), "settings:get", gomock.Any(), 3600).Return(nil)
			},
			wantAddOns: 4,
			wantName:   "Seaside Resort",
		},
		{
			name: "missing row falls back to the seeded catalogue",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantAddOns: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background())

			time.Sleep(10 * time.Millisecond)

			require.NoError(t, err)
			assert.Len(t, res.AddOns, tt.wantAddOns)
			assert.Equal(t, tt.wantName, res.Name)
		})
	}
}

func TestSettingsService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel(), mockS3)

	stored := model.Default()
	stored.Logo = "https://cdn.example.com/settings/old.png"

	tests := []struct {
		name      string
		req       dto.UpdateSettingsRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "uploads a data uri logo and drops the old one",
			req:  dto.UpdateSettingsRequest{Name: "Seaside Resort", Logo: pngDataURI},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				mockS3.EXPECT().UploadBytes(gomock.Any(), "settings", gomock.Any(), "image/png", gomock.Any()).
					Return(s3.Object{URL: "https://cdn.example.com/settings/new.png"}, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "https://cdn.example.com/settings/new.png", fields[model.FieldLogo])
						assert.Equal(t, "Seaside Resort", fields["name"])

						return nil
					})
				mockS3.EXPECT().KeyFromURL(stored.Logo).Return("settings/old.png")
				mockS3.EXPECT().Delete(gomock.Any(), "settings/old.png").Return(nil)
				mockCache.EXPECT().Delete(gomock.Any(), "settings:get").Return(nil)
			},
		},
		{
			name: "creates the row before the first update",
			req:  dto.UpdateSettingsRequest{Currency: "EUR"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Settings{}, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, settings model.Settings) error {
						assert.Equal(t, model.DefaultID, settings.ID)

						return nil
					})
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "rejects a non-image data uri",
			req:  dto.UpdateSettingsRequest{Logo: "data:text/plain;base64,aGVsbG8="},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
			},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			err := svc.Update(ctx, tt.req)

			time.Sleep(20 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
