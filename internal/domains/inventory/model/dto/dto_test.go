package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/inventory/model"
	"hotel/internal/domains/inventory/model/dto"
)

func TestUpdateMaintenanceRequest_Normalize(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		req           dto.UpdateMaintenanceRequest
		wantCompleted *time.Time
		wantErr       bool
	}{
		{
			name:          "completed without a date is stamped now",
			req:           dto.UpdateMaintenanceRequest{Status: model.MaintenanceCompleted},
			wantCompleted: &now,
		},
		{
			name:          "explicit completion date wins",
			req:           dto.UpdateMaintenanceRequest{Status: model.MaintenanceCompleted, CompletedDate: "2024-06-01T08:30:00Z"},
			wantCompleted: func() *time.Time { t := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC); return &t }(),
		},
		{
			name: "other statuses leave it unset",
			req:  dto.UpdateMaintenanceRequest{Status: model.MaintenanceCancelled},
		},
		{
			name:    "malformed scheduled date",
			req:     dto.UpdateMaintenanceRequest{ScheduledDate: "next tuesday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize(now)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			if tt.wantCompleted == nil {
				assert.Nil(t, tt.req.CompletedAt)

				return
			}

			require.NotNil(t, tt.req.CompletedAt)
			assert.True(t, tt.wantCompleted.Equal(*tt.req.CompletedAt))
		})
	}
}

func TestCreateMaintenanceRequest_ToModel(t *testing.T) {
	req := dto.CreateMaintenanceRequest{Type: model.TypeCleaning, Title: "Deep clean", ScheduledDate: "2024-06-01"}

	record, err := req.ToModel("admin-1")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, record.Priority)
	assert.Equal(t, model.MaintenanceScheduled, record.Status)
	assert.Nil(t, record.CompletedDate)
}

func TestParseRange(t *testing.T) {
	_, _, err := dto.ParseRange("2024-01-02", "2024-01-02")
	require.NoError(t, err)

	_, _, err = dto.ParseRange("2024-01-03", "2024-01-02")
	require.Error(t, err)

	_, _, err = dto.ParseRange("01/02/2024", "2024-01-02")
	require.Error(t, err)
}
