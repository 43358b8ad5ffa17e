package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/message/mocks"
	"hotel/internal/domains/message/model"
	"hotel/internal/domains/message/model/dto"
	"hotel/internal/domains/message/service"
	"hotel/internal/events"
	eventMocks "hotel/internal/events/mocks"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

type fixture struct {
	repo      *mocks.MockMessage
	publisher *eventMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Message
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:      mocks.NewMockMessage(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.publisher, cfg, f.cache, otelMocks.NewOtel())

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestMessage_Create(t *testing.T) {
	req := dto.CreateMessageRequest{Name: "Ana", Email: "ana@example.com", Subject: "Parking", Message: "Is parking included?"}

	t.Run("files the message and announces it", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg model.Message) error {
				assert.Equal(t, model.StatusUnread, msg.Status)
				assert.Equal(t, model.PriorityMedium, msg.Priority)

				return nil
			})
		f.publisher.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payload events.MessagePayload) error {
				assert.Equal(t, "ana@example.com", payload.Email)
				assert.Equal(t, "Parking", payload.Subject)

				return nil
			})

		id, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		time.Sleep(20 * time.Millisecond)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().PublishMessage(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	})

	t.Run("storage failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Create(context.Background(), req)
		require.Error(t, err)
		time.Sleep(20 * time.Millisecond)
	})
}

func TestMessage_Get(t *testing.T) {
	readAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		stored model.Message
		setupMock  func(f fixture)
		wantStatus model.Status
		wantCode   int
		wantErr    bool
	}{
		{
			name:   "opening an unread message marks it read",
			stored: model.Message{ID: "m-1", Status: model.StatusUnread},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusRead, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldReadAt)

						return nil
					})
			},
			wantStatus: model.StatusRead,
		},
		{
			name:       "replied messages are left alone",
			stored:     model.Message{ID: "m-1", Status: model.StatusReplied, ReadAt: &readAt},
			setupMock:  func(fixture) {},
			wantStatus: model.StatusReplied,
		},
		{
			name:      "missing message",
			stored:    model.Message{},
			setupMock: func(fixture) {},
			wantCode:  http.StatusNotFound,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.stored, nil)
			tt.setupMock(f)

			res, err := f.svc.Get(adminContext(), "m-1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.NotNil(t, res.ReadAt)
		})
	}
}

func TestMessage_Update(t *testing.T) {
	readAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("read keeps the first read time", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Message{ID: "m-1", ReadAt: &readAt}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldReadAt)

				return nil
			})

		require.NoError(t, f.svc.Update(adminContext(), dto.UpdateMessageRequest{Status: model.StatusRead}, "m-1"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("starring", func(t *testing.T) {
		starred := true

		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Message{ID: "m-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &starred, fields[model.FieldIsStarred])

				return nil
			})

		require.NoError(t, f.svc.Update(adminContext(), dto.UpdateMessageRequest{IsStarred: &starred}, "m-1"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(adminContext(), dto.UpdateMessageRequest{}, "m-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestMessage_Reply(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Message{ID: "m-1", Status: model.StatusUnread}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "Yes, parking is free.", fields[model.FieldReply])
			assert.Equal(t, model.StatusReplied, fields[model.FieldStatus])
			assert.Contains(t, fields, model.FieldRepliedAt)
			assert.Contains(t, fields, model.FieldReadAt)

			return nil
		})

	require.NoError(t, f.svc.Reply(adminContext(), dto.ReplyRequest{Reply: "Yes, parking is free."}, "m-1"))
	time.Sleep(10 * time.Millisecond)
}
