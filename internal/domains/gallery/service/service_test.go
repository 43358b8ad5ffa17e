package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/infras/s3"
	s3Mocks "hotel/infras/s3/mocks"
	"hotel/internal/domains/gallery/mocks"
	"hotel/internal/domains/gallery/model"
	"hotel/internal/domains/gallery/model/dto"
	"hotel/internal/domains/gallery/service"
	roomMocks "hotel/internal/domains/room/mocks"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

const roomID = "6f1c2a3e-9b4d-4c11-8a55-0c7d2e9f1a20"

type fixture struct {
	repo  *mocks.MockGallery
	rooms *roomMocks.MockRoom
	tx    *mocks.MockTransactor
	store *s3Mocks.MockS3
	cache *cacheMocks.MockRedisCache
	svc   service.Gallery
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:  mocks.NewMockGallery(ctrl),
		rooms: roomMocks.NewMockRoom(ctrl),
		tx:    mocks.NewMockTransactor(ctrl),
		store: s3Mocks.NewMockS3(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.rooms, f.tx, cfg, f.cache, otelMocks.NewOtel(), f.store)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
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

func files(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, len(names))
	for i, name := range names {
		out[i] = &multipart.FileHeader{Filename: name}
	}

	return out
}

func TestGallery_Create(t *testing.T) {
	t.Run("one entry per uploaded file", func(t *testing.T) {
		f := newFixture(t)

		var uploads atomic.Int32

		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.store.EXPECT().Upload(gomock.Any(), "gallery", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, file *multipart.FileHeader) (s3.Object, error) {
				uploads.Add(1)

				return s3.Object{URL: "https://cdn.example.com/gallery/" + file.Filename}, nil
			}).Times(3)
		f.runTx()
		f.repo.EXPECT().ClearMainTx(gomock.Any(), gomock.Any(), roomID, gomock.Any(), "admin-1").Return(nil)
		f.repo.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, images []model.Image) error {
				require.Len(t, images, 3)
				assert.True(t, images[0].IsMainImage)
				assert.False(t, images[1].IsMainImage)
				assert.False(t, images[2].IsMainImage)

				return nil
			})

		ids, err := f.svc.Create(adminContext(), dto.CreateImagesRequest{
			RoomID:      roomID,
			ImageType:   model.ImageBedroom,
			IsMainImage: true,
			Files:       files("a.jpg", "b.jpg", "c.jpg"),
		})
		require.NoError(t, err)
		assert.Len(t, ids, 3)
		assert.Equal(t, int32(3), uploads.Load())
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("a failed upload fails the batch", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, file *multipart.FileHeader) (s3.Object, error) {
				if file.Filename == "bad.jpg" {
					return s3.Object{}, errors.New("timeout")
				}

				return s3.Object{URL: "https://cdn.example.com/gallery/" + file.Filename}, nil
			}).Times(2)

		_, err := f.svc.Create(adminContext(), dto.CreateImagesRequest{
			RoomID:    roomID,
			ImageType: model.ImageView,
			Files:     files("ok.jpg", "bad.jpg"),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("insert failure removes the uploads", func(t *testing.T) {
		f := newFixture(t)

		deleted := make(chan string, 1)

		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).Return(s3.Object{URL: "https://cdn.example.com/gallery/a.jpg"}, nil)
		f.runTx()
		f.repo.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		f.store.EXPECT().KeyFromURL("https://cdn.example.com/gallery/a.jpg").Return("gallery/a.jpg")
		f.store.EXPECT().Delete(gomock.Any(), "gallery/a.jpg").
			DoAndReturn(func(_ context.Context, key string) error {
				deleted <- key

				return nil
			})

		_, err := f.svc.Create(adminContext(), dto.CreateImagesRequest{
			RoomID:    roomID,
			ImageType: model.ImageView,
			Files:     files("a.jpg"),
		})
		require.Error(t, err)

		select {
		case key := <-deleted:
			assert.Equal(t, "gallery/a.jpg", key)
		case <-time.After(time.Second):
			t.Fatal("uploaded object was not removed")
		}
	})

	t.Run("no files is rejected before any lookup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(adminContext(), dto.CreateImagesRequest{RoomID: roomID, ImageType: model.ImageView, IsMainImage: true})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown room uploads nothing", func(t *testing.T) {
		f := newFixture(t)
		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(adminContext(), dto.CreateImagesRequest{RoomID: roomID, ImageType: model.ImageView, Files: files("a.jpg")})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGallery_Update(t *testing.T) {
	stored := model.Image{ID: "img-2", RoomID: roomID}

	t.Run("promoting clears the sibling main image", func(t *testing.T) {
		main := true

		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.runTx()
		f.repo.EXPECT().ClearMainTx(gomock.Any(), gomock.Any(), roomID, "img-2", "admin-1").Return(nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &main, fields[model.FieldIsMainImage])

				return nil
			})

		require.NoError(t, f.svc.Update(adminContext(), dto.UpdateImageRequest{IsMainImage: &main}, "img-2"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("title change leaves siblings alone", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.runTx()
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Update(adminContext(), dto.UpdateImageRequest{Title: "Sea view"}, "img-2"))
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(adminContext(), dto.UpdateImageRequest{}, "img-2")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestGallery_Delete(t *testing.T) {
	f := newFixture(t)

	deleted := make(chan string, 1)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Image{ID: "img-1", ImageURL: "https://cdn.example.com/gallery/a.jpg"}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().KeyFromURL(gomock.Any()).Return("gallery/a.jpg")
	f.store.EXPECT().Delete(gomock.Any(), "gallery/a.jpg").
		DoAndReturn(func(_ context.Context, key string) error {
			deleted <- key

			return nil
		})

	require.NoError(t, f.svc.Delete(adminContext(), "img-1"))

	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("stored object was not removed")
	}
}
