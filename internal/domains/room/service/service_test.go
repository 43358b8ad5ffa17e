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
	roomMocks "hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

type fixture struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func (f fixture) allowCacheWrites() {
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestRoomService_Create(t *testing.T) {
	image := &multipart.FileHeader{Filename: "suite.png", Size: 1024}

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "creates room with default status and uploaded images",
			req: dto.CreateRoomRequest{
				Name:     "Ocean Suite",
				Type:     "Suite",
				Price:    250,
				Capacity: 2,
				Images:   []*multipart.FileHeader{image},
			},
			setupMock: func(f fixture) {
				f.s3.EXPECT().Upload(gomock.Any(), model.TableName, image).
					Return(s3.Object{URL: "https://cdn.example.com/rooms/a.png"}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, model.StatusAvailable, room.Status)
						assert.True(t, room.Availability)
						assert.Equal(t, pq.StringArray{"https://cdn.example.com/rooms/a.png"}, room.Images)
						assert.Equal(t, "admin-1", room.CreatedBy)

						return nil
					})
				f.allowCacheWrites()
			},
		},
		{
			name: "upload failure aborts before insert",
			req:  dto.CreateRoomRequest{Name: "Ocean Suite", Images: []*multipart.FileHeader{image}},
			setupMock: func(f fixture) {
				f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(s3.Object{}, errors.New("bucket unavailable"))
			},
			wantErr:  true,
			wantCode: 500,
		},
		{
			name: "insert failure removes uploaded images",
			req:  dto.CreateRoomRequest{Name: "Ocean Suite", Images: []*multipart.FileHeader{image}},
			setupMock: func(f fixture) {
				f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(s3.Object{URL: "https://cdn.example.com/rooms/a.png"}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.s3.EXPECT().KeyFromURL("https://cdn.example.com/rooms/a.png").Return("rooms/a.png")
				f.s3.EXPECT().Delete(gomock.Any(), "rooms/a.png").Return(nil)
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(userContext(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantTotal int
		wantErr   bool
	}{
		{
			name: "serves cached page",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.GetRoomsResponse)
						res.TotalData = 7

						return nil
					})
			},
			wantTotal: 7,
		},
		{
			name: "loads from repository on cache miss",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).
					Return([]model.Room{{ID: "room-1", Name: "Deluxe"}}, nil)
				f.allowCacheWrites()
			},
			wantTotal: 1,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.GetAll(context.Background(), params, gDto.NewFilterGroup())

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "room:get:room-1", gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Name: "Deluxe"}, nil)
				f.allowCacheWrites()
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Deluxe", res.Name)
			assert.NotNil(t, res.Images)
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	price := 300.0
	current := model.Room{
		ID:     "room-1",
		Images: pq.StringArray{"https://cdn.example.com/rooms/a.png", "https://cdn.example.com/rooms/b.png"},
	}

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "removes listed images and keeps the rest",
			req: dto.UpdateRoomRequest{
				Price:        &price,
				RemoveImages: []string{"https://cdn.example.com/rooms/a.png"},
			},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, pq.StringArray{"https://cdn.example.com/rooms/b.png"}, fields[model.FieldImages])
						assert.Equal(t, &price, fields[model.FieldPrice])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
				f.s3.EXPECT().KeyFromURL("https://cdn.example.com/rooms/a.png").Return("rooms/a.png")
				f.s3.EXPECT().Delete(gomock.Any(), "rooms/a.png").Return(nil)
				f.allowCacheWrites()
			},
		},
		{
			name: "not found",
			req:  dto.UpdateRoomRequest{Price: &price},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(userContext(), tt.req, "room-1")

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

func TestRoomService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "updates status",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCleaning, fields[model.FieldStatus])

						return nil
					})
				f.allowCacheWrites()
			},
		},
		{
			name: "missing room",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.UpdateStatus(userContext(), dto.UpdateRoomStatusRequest{Status: model.StatusCleaning}, "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(model.Room{ID: "room-1", Images: pq.StringArray{"https://cdn.example.com/rooms/a.png"}}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.s3.EXPECT().KeyFromURL(gomock.Any()).Return("rooms/a.png")
	f.s3.EXPECT().Delete(gomock.Any(), "rooms/a.png").Return(nil)
	f.allowCacheWrites()

	err := f.svc.Delete(userContext(), "room-1")

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, err)
}
