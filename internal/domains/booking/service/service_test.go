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
	"hotel/infras/otel/mocks"
	bookingMocks "hotel/internal/domains/booking/mocks"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	promotionMocks "hotel/internal/domains/promotion/mocks"
	promotionModel "hotel/internal/domains/promotion/model"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	settingsMocks "hotel/internal/domains/settings/mocks"
	settingsModel "hotel/internal/domains/settings/model"
	userMocks "hotel/internal/domains/user/mocks"
	userModel "hotel/internal/domains/user/model"
	"hotel/internal/events"
	eventMocks "hotel/internal/events/mocks"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
)

type fixture struct {
	repo      *bookingMocks.MockBooking
	tx        *bookingMocks.MockTransactor
	rooms     *roomMocks.MockRoom
	users     *userMocks.MockUser
	promos    *promotionMocks.MockPromotion
	settings  *settingsMocks.MockSettingsService
	publisher *eventMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		tx:        bookingMocks.NewMockTransactor(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		promos:    promotionMocks.NewMockPromotion(ctrl),
		settings:  settingsMocks.NewMockSettingsService(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.rooms, f.users, f.promos, f.settings, f.publisher, f.tx, cfg, f.cache, mocks.NewOtel())

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

func guestContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")
}

func deluxe() roomModel.Room {
	return roomModel.Room{ID: "room-1", Name: "Deluxe 101", Type: "Deluxe", Price: 100, Capacity: 2, Availability: true}
}

func stay(addOns ...dto.AddOnRequest) dto.StayRequest {
	return dto.StayRequest{
		RoomID:   "room-1",
		CheckIn:  "2024-01-01",
		CheckOut: "2024-01-04",
		Guests:   2,
		AddOns:   addOns,
	}
}

func promotion(discountType promotionModel.DiscountType, value float64) promotionModel.Promotion {
	code := "WINTER"
	now := timezone.Now()

	return promotionModel.Promotion{
		ID:            "promo-1",
		PromoCode:     &code,
		DiscountType:  discountType,
		DiscountValue: value,
		StartDate:     now.AddDate(0, 0, -1),
		EndDate:       now.AddDate(0, 0, 1),
		IsActive:      true,
	}
}

func TestBookingService_Quote(t *testing.T) {
	breakfast := dto.AddOnRequest{Name: "continental breakfast", Quantity: 2}

	tests := []struct {
		name      string
		req       dto.StayRequest
		setupMock func(f fixture)
		wantTotal float64
		wantCode  int
	}{
		{
			name: "room nights plus add-ons",
			req:  stay(breakfast),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Default(), nil)
			},
			wantTotal: 350,
		},
		{
			name: "percentage promotion comes off the subtotal",
			req: func() dto.StayRequest {
				req := stay(breakfast)
				req.PromoCode = "winter"

				return req
			}(),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Default(), nil)
				f.promos.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promotion(promotionModel.DiscountPercentage, 10), nil)
			},
			wantTotal: 315,
		},
		{
			name: "fixed promotion never goes below zero",
			req: func() dto.StayRequest {
				req := stay()
				req.PromoCode = "WINTER"

				return req
			}(),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.promos.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promotion(promotionModel.DiscountFixed, 1000), nil)
			},
			wantTotal: 0,
		},
		{
			name: "unknown promo code",
			req: func() dto.StayRequest {
				req := stay()
				req.PromoCode = "NOPE"

				return req
			}(),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.promos.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promotionModel.Promotion{}, nil)
			},
			wantCode: 400,
		},
		{
			name: "unknown add-on",
			req:  stay(dto.AddOnRequest{Name: "Helicopter", Quantity: 1}),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Default(), nil)
			},
			wantCode: 400,
		},
		{
			name: "same day check-out has no nights",
			req: func() dto.StayRequest {
				req := stay()
				req.CheckOut = req.CheckIn

				return req
			}(),
			setupMock: func(fixture) {},
			wantCode:  400,
		},
		{
			name: "more guests than the room holds",
			req: func() dto.StayRequest {
				req := stay()
				req.Guests = 3

				return req
			}(),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
			},
			wantCode: 400,
		},
		{
			name: "unavailable room",
			req:  stay(),
			setupMock: func(f fixture) {
				room := deluxe()
				room.Availability = false
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantCode: 400,
		},
		{
			name: "missing room",
			req:  stay(),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			quote, err := f.svc.Quote(context.Background(), dto.QuoteRequest{StayRequest: tt.req})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, quote.Nights)
			assert.InDelta(t, tt.wantTotal, quote.Total, 0.0001)
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(userModel.User{ID: "guest-1", Email: "guest@example.com", DisplayName: "Ada", Phone: "+100"}, nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
	f.settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Default(), nil)
	f.promos.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promotion(promotionModel.DiscountFlat, 50), nil)
	f.runTx()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			assert.Equal(t, "guest-1", booking.UserID)
			assert.Equal(t, "guest@example.com", booking.UserEmail)
			assert.Equal(t, "Ada", booking.UserName)
			assert.Equal(t, model.StatusPending, booking.BookingStatus)
			assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
			assert.Equal(t, "WINTER", booking.PromoCode)
			assert.InDelta(t, 300.0, booking.TotalAmount, 0.0001)
			assert.InDelta(t, 50.0, booking.Discount, 0.0001)
			require.Len(t, booking.AddOns.Data, 1)
			assert.InDelta(t, 25.0, booking.AddOns.Data[0].Price, 0.0001)

			return nil
		})
	f.promos.EXPECT().IncrementUsageTx(gomock.Any(), gomock.Any(), "promo-1").Return(nil)
	f.publisher.EXPECT().PublishBooking(gomock.Any(), events.TypeBookingCreated, gomock.Any()).Return(nil)

	req := dto.CreateBookingRequest{StayRequest: stay(dto.AddOnRequest{Name: "Continental Breakfast", Quantity: 2})}
	req.PromoCode = "winter"

	res, err := f.svc.Create(guestContext(), req)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "Deluxe 101", res.RoomName)
	assert.Equal(t, 3, res.Nights)
}

func TestBookingService_Create_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "guest-1"}, nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
	f.runTx()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	_, err := f.svc.Create(guestContext(), dto.CreateBookingRequest{StayRequest: stay()})
	assert.Equal(t, 500, failure.GetCode(err))
}

func TestBookingService_Create_PromoExhaustedInsideTransaction(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "guest-1"}, nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
	f.settings.EXPECT().Current(gomock.Any()).Return(settingsModel.Default(), nil)
	f.promos.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promotion(promotionModel.DiscountFlat, 50), nil)
	f.runTx()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.promos.EXPECT().IncrementUsageTx(gomock.Any(), gomock.Any(), "promo-1").Return(promotionModel.ErrUsageLimitReached)

	req := dto.CreateBookingRequest{StayRequest: stay(dto.AddOnRequest{Name: "Continental Breakfast", Quantity: 2})}
	req.PromoCode = "winter"

	_, err := f.svc.Create(guestContext(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "promo code exhausted")
}

func TestBookingService_CreateFor(t *testing.T) {
	f := newFixture(t)

	adminCtx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "guest-9", Email: "walkin@example.com"}, nil)
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
	f.runTx()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			assert.Equal(t, "guest-9", booking.UserID)
			assert.Equal(t, "admin-1", booking.CreatedBy)
			assert.Equal(t, model.StatusConfirmed, booking.BookingStatus)
			assert.Equal(t, model.PaymentPaid, booking.PaymentStatus)

			return nil
		})
	f.publisher.EXPECT().PublishBooking(gomock.Any(), events.TypeBookingCreated, gomock.Any()).Return(nil)

	_, err := f.svc.CreateFor(adminCtx, dto.AdminCreateBookingRequest{
		CreateBookingRequest: dto.CreateBookingRequest{StayRequest: stay()},
		UserID:               "guest-9",
		BookingStatus:        model.StatusConfirmed,
		PaymentStatus:        model.PaymentPaid,
		AmountPaid:           300,
	})
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, err)
}

func TestBookingService_GetAll_ResolvesRoomsOnce(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
		{ID: "b-1", RoomID: "room-1"},
		{ID: "b-2", RoomID: "room-2"},
		{ID: "b-3", RoomID: "room-1"},
	}, nil)
	f.rooms.EXPECT().GetByIDs(gomock.Any(), []string{"room-1", "room-2"}).Return(map[string]roomModel.Room{
		"room-1": deluxe(),
		"room-2": {ID: "room-2", Name: "Suite 9", Type: "Suite"},
	}, nil).Times(1)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.NewFilterGroup())
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Bookings, 3)
	assert.Equal(t, "Deluxe", res.Bookings[0].RoomType)
	assert.Equal(t, "Suite 9", res.Bookings[1].RoomName)
	assert.Equal(t, model.StatusPending, res.Bookings[2].BookingStatus)
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		booking   model.Booking
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "own booking",
			booking: model.Booking{ID: "b-1", UserID: "guest-1", BookingStatus: model.StatusConfirmed},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldBookingStatus])

						return nil
					})
				f.publisher.EXPECT().PublishBooking(gomock.Any(), events.TypeBookingUpdated, gomock.Any()).Return(nil)
			},
		},
		{
			name:      "someone else's booking",
			booking:   model.Booking{ID: "b-1", UserID: "guest-2"},
			setupMock: func(fixture) {},
			wantCode:  404,
		},
		{
			name:      "already cancelled",
			booking:   model.Booking{ID: "b-1", UserID: "guest-1", BookingStatus: model.StatusCancelled},
			setupMock: func(fixture) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.booking, nil)
			tt.setupMock(f)

			err := f.svc.Cancel(guestContext(), "b-1")
			time.Sleep(20 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	current := model.Booking{
		ID:            "b-1",
		RoomID:        "room-1",
		CheckIn:       time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, time.January, 4, 11, 0, 0, 0, time.UTC),
		AddOns:        gModel.NewJSONB([]model.AddOn{{Name: "Spa Package", Price: 75, Quantity: 1}}),
		Discount:      25,
		PaymentStatus: model.PaymentPending,
	}

	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "any status can follow any other",
			req:  dto.UpdateBookingRequest{BookingStatus: model.StatusNoShow, PaymentStatus: model.PaymentRefunded},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusNoShow, fields[model.FieldBookingStatus])
						assert.NotContains(t, fields, model.FieldTotalAmount)

						return nil
					})
				f.publisher.EXPECT().PublishBooking(gomock.Any(), events.TypeBookingUpdated, gomock.Any()).Return(nil)
			},
		},
		{
			name: "new dates reprice the stay",
			req:  dto.UpdateBookingRequest{CheckOut: "2024-01-06T11:00:00Z"},
			setupMock: func(f fixture) {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxe(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						total, ok := fields[model.FieldTotalAmount].(*float64)
						require.True(t, ok)
						assert.InDelta(t, 550.0, *total, 0.0001)

						return nil
					})
				f.publisher.EXPECT().PublishBooking(gomock.Any(), events.TypeBookingUpdated, gomock.Any()).Return(nil)
			},
		},
		{
			name:      "check-out before check-in",
			req:       dto.UpdateBookingRequest{CheckOut: "2023-12-30"},
			setupMock: func(fixture) {},
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, "b-1")
			time.Sleep(20 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_Update_Empty(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{}, "b-1")
	assert.Equal(t, 400, failure.GetCode(err))
}
