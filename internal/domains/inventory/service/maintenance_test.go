package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/inventory/mocks"
	"hotel/internal/domains/inventory/model"
	"hotel/internal/domains/inventory/model/dto"
	"hotel/internal/domains/inventory/service"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

const roomID = "6f1c2a3e-9b4d-4c11-8a55-0c7d2e9f1a20"

type fixture struct {
	repo     *mocks.MockMaintenance
	blocks   *mocks.MockBlock
	rooms    *roomMocks.MockRoom
	tx       *mocks.MockTransactor
	cache    *cacheMocks.MockRedisCache
	svc      service.Maintenance
	blockSvc service.Block
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:   mocks.NewMockMaintenance(ctrl),
		blocks: mocks.NewMockBlock(ctrl),
		rooms:  roomMocks.NewMockRoom(ctrl),
		tx:     mocks.NewMockTransactor(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.NewMaintenance(f.repo, f.rooms, f.tx, cfg, f.cache, otelMocks.NewOtel())
	f.blockSvc = service.NewBlock(f.blocks, f.rooms, cfg, f.cache, otelMocks.NewOtel())

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) runTx() {
	f.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestMaintenance_Create(t *testing.T) {
	tests := []struct {
		name      string
		priority  model.Priority
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name:     "medium priority leaves the room alone",
			priority: model.PriorityMedium,
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.runTx()
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, record model.Maintenance) error {
						assert.Equal(t, model.MaintenanceScheduled, record.Status)
						assert.Equal(t, "admin-1", record.CreatedBy)

						return nil
					})
			},
		},
		{
			name:     "urgent work takes the room offline",
			priority: model.PriorityUrgent,
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.runTx()
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, roomModel.StatusMaintenance, fields[roomModel.FieldStatus])

						return nil
					})
			},
		},
		{
			name:     "room status failure rolls back",
			priority: model.PriorityHigh,
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.runTx()
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.rooms.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  true,
		},
		{
			name:     "unknown room",
			priority: model.PriorityLow,
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			id, err := f.svc.Create(adminContext(), dto.CreateMaintenanceRequest{
				RoomID:        roomID,
				Type:          model.TypeRepair,
				Priority:      tt.priority,
				Title:         "Leaking tap",
				ScheduledDate: "2024-06-01",
			})
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestMaintenance_Update(t *testing.T) {
	t.Run("completing stamps the completion date", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Maintenance{ID: "m-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.MaintenanceCompleted, fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCompletedDate)

				return nil
			})

		err := f.svc.Update(adminContext(), dto.UpdateMaintenanceRequest{Status: model.MaintenanceCompleted}, "m-1")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("other statuses keep the completion date untouched", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Maintenance{ID: "m-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldCompletedDate)

				return nil
			})

		err := f.svc.Update(adminContext(), dto.UpdateMaintenanceRequest{Status: model.MaintenanceInProgress}, "m-1")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(adminContext(), dto.UpdateMaintenanceRequest{}, "m-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing record", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Maintenance{}, nil)

		err := f.svc.Update(adminContext(), dto.UpdateMaintenanceRequest{Title: "x"}, "m-404")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestMaintenance_GetAll(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Maintenance{{ID: "a"}, {ID: "b"}}, nil)

	res, err := f.svc.GetAll(adminContext(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.NewFilterGroup())
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Records, 2)
	time.Sleep(10 * time.Millisecond)
}
