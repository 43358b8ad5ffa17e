package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/internal/domains/inventory/model"
	"hotel/internal/domains/inventory/model/dto"
	"hotel/shared/failure"
)

func TestBlock_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateBlockRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "single day block",
			req:  dto.CreateBlockRequest{RoomID: roomID, StartDate: "2024-07-01", EndDate: "2024-07-01", Type: model.BlockReserved},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.blocks.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, block model.Block) error {
						assert.True(t, block.StartDate.Equal(block.EndDate))

						return nil
					})
			},
		},
		{
			name:      "inverted range",
			req:       dto.CreateBlockRequest{RoomID: roomID, StartDate: "2024-07-05", EndDate: "2024-07-01", Type: model.BlockBlocked},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
			wantErr:   true,
		},
		{
			name: "unknown room",
			req:  dto.CreateBlockRequest{RoomID: roomID, StartDate: "2024-07-01", EndDate: "2024-07-02", Type: model.BlockBlocked},
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

			id, err := f.blockSvc.Create(adminContext(), tt.req)
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

func TestBlock_Update(t *testing.T) {
	stored := model.Block{
		ID:        "b-1",
		StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
	}

	t.Run("end moved before the stored start", func(t *testing.T) {
		f := newFixture(t)
		f.blocks.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		err := f.blockSvc.Update(adminContext(), dto.UpdateBlockRequest{EndDate: "2024-06-30"}, "b-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("reason only", func(t *testing.T) {
		f := newFixture(t)
		f.blocks.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.blocks.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.blockSvc.Update(adminContext(), dto.UpdateBlockRequest{Reason: "VIP hold"}, "b-1"))
		time.Sleep(10 * time.Millisecond)
	})
}
