package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/metrics"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/pricing"
	"hotel/internal/domains/booking/repository"
	promotionModel "hotel/internal/domains/promotion/model"
	promotionRepo "hotel/internal/domains/promotion/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	settingsService "hotel/internal/domains/settings/service"
	userModel "hotel/internal/domains/user/model"
	userRepo "hotel/internal/domains/user/repository"
	"hotel/internal/events"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cachePromotions    = "promotion:"
)

type Booking interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (pricing.Quote, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreateFor(ctx context.Context, req dto.AdminCreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Mine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepo.Room
	userRepo  userRepo.User
	promoRepo promotionRepo.Promotion
	settings  settingsService.Settings
	publisher events.Publisher
	tx        Transactor
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	promoRepo promotionRepo.Promotion,
	settings settingsService.Settings,
	publisher events.Publisher,
	tx Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		promoRepo: promoRepo,
		settings:  settings,
		publisher: publisher,
		tx:        tx,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// stay is a priced request, ready to be stored.
type stay struct {
	room     roomModel.Room
	quote    pricing.Quote
	addOns   []model.AddOn
	promo    *promotionModel.Promotion
	checkIn  time.Time
	checkOut time.Time
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res pricing.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	priced, err := s.price(ctx, req.StayRequest)
	if err != nil {
		return res, err
	}

	return priced.quote, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guest, err := s.guest(ctx, user)
	if err != nil {
		return res, err
	}

	booking, priced, err := s.prepare(ctx, user, guest, req)
	if err != nil {
		return res, err
	}

	if err = s.insert(ctx, booking, priced.promo); err != nil {
		return res, err
	}

	metrics.IncBookingCreated(constant.ChannelWeb)
	s.created(ctx, booking)

	res.FromModel(booking)
	res.WithRoom(priced.room.Name, priced.room.Type)

	return res, nil
}

func (s *serviceImpl) CreateFor(ctx context.Context, req dto.AdminCreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateFor")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guest, err := s.guest(ctx, req.UserID)
	if err != nil {
		return res, err
	}

	booking, priced, err := s.prepare(ctx, user, guest, req.CreateBookingRequest)
	if err != nil {
		return res, err
	}

	if req.BookingStatus != constant.Empty {
		booking.BookingStatus = req.BookingStatus
	}

	if req.PaymentStatus != constant.Empty {
		booking.PaymentStatus = req.PaymentStatus
	}

	booking.AmountPaid = req.AmountPaid

	if err = s.insert(ctx, booking, priced.promo); err != nil {
		return res, err
	}

	metrics.IncBookingCreated(constant.ChannelAdmin)
	s.created(ctx, booking)

	res.FromModel(booking)
	res.WithRoom(priced.room.Name, priced.room.Type)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err = s.resolveRooms(ctx, res.Bookings); err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Mine lists the caller's bookings, newest first.
func (s *serviceImpl) Mine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Mine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("unauthorized")
	}

	req.SortBy = constant.FieldCreatedAt
	req.SortDir = gDto.SortDirDesc

	filter := gDto.NewFilterGroup()
	filter.Eq(model.TableName, model.FieldUserID, user)

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	responses := []dto.BookingResponse{res}
	if err = s.resolveRooms(ctx, responses); err != nil {
		return res, err
	}

	res = responses[0]
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Cancel lets guests cancel their own bookings. A booking that belongs to
// someone else is reported as missing.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != user {
		return failure.NotFound("booking not found")
	}

	if booking.Status() == model.StatusCancelled {
		return nil
	}

	fields := map[string]any{
		model.FieldBookingStatus: model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.BookingStatus = model.StatusCancelled
	s.updated(ctx, booking)

	return nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if req.ChangesStay() {
		if err = s.reprice(ctx, &req, booking); err != nil {
			return err
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if req.BookingStatus != constant.Empty {
		booking.BookingStatus = req.BookingStatus
	}

	if req.PaymentStatus != constant.Empty {
		booking.PaymentStatus = req.PaymentStatus
	}

	if req.TotalAmount != nil {
		booking.TotalAmount = *req.TotalAmount
	}

	s.updated(ctx, booking)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	// A deleted booking no longer counts toward the guest's totals.
	s.updated(ctx, booking)

	return nil
}

// price resolves the room, add-on catalogue and promotion for a stay and
// computes the quote. Quote and Create share it so they never disagree.
func (s *serviceImpl) price(ctx context.Context, req dto.StayRequest) (res stay, err error) {
	var nights int

	res.checkIn, res.checkOut, nights, err = dto.ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	res.room, err = s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if res.room.ID == constant.Empty {
		return res, failure.NotFound("room not found")
	}

	if !res.room.Availability {
		return res, failure.BadRequestFromString("room is not available for booking")
	}

	if req.Guests > res.room.Capacity {
		return res, failure.BadRequestFromString(fmt.Sprintf("room holds at most %d guests", res.room.Capacity))
	}

	if res.addOns, err = s.addOns(ctx, req.AddOns); err != nil {
		return res, err
	}

	res.quote = pricing.NewQuote(res.room.Price, nights, res.addOns)

	if req.PromoCode == constant.Empty {
		return res, nil
	}

	promo, err := s.promotion(ctx, req.PromoCode)
	if err != nil {
		return res, err
	}

	discount, err := promo.Discount(res.quote.Subtotal(), res.room.Type, timezone.Now())
	if err != nil {
		return res, failure.BadRequest(err)
	}

	res.quote = res.quote.WithDiscount(discount)
	res.promo = &promo

	return res, nil
}

// addOns prices requested extras from the settings catalogue.
func (s *serviceImpl) addOns(ctx context.Context, requested []dto.AddOnRequest) ([]model.AddOn, error) {
	if len(requested) == 0 {
		return []model.AddOn{}, nil
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-on catalogue: %w", err)
	}

	addOns := make([]model.AddOn, 0, len(requested))

	for _, item := range requested {
		price, ok := settings.AddOnPrice(item.Name)
		if !ok {
			return nil, failure.BadRequestFromString(fmt.Sprintf("unknown add-on %q", item.Name))
		}

		addOns = append(addOns, model.AddOn{Name: item.Name, Price: price, Quantity: item.Quantity})
	}

	return addOns, nil
}

func (s *serviceImpl) promotion(ctx context.Context, code string) (promotionModel.Promotion, error) {
	filter := gDto.NewFilterGroup()
	filter.Eq(promotionModel.TableName, promotionModel.FieldPromoCode, promotionModel.NormalizeCode(code))

	promo, err := s.promoRepo.Get(ctx, filter)
	if err != nil {
		return promo, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promo.ID == constant.Empty {
		return promo, failure.BadRequestFromString("invalid promo code")
	}

	return promo, nil
}

func (s *serviceImpl) prepare(ctx context.Context, user string, guest dto.Guest, req dto.CreateBookingRequest) (model.Booking, stay, error) {
	priced, err := s.price(ctx, req.StayRequest)
	if err != nil {
		return model.Booking{}, priced, err
	}

	return req.ToModel(user, guest, priced.quote, priced.addOns, priced.checkIn, priced.checkOut), priced, nil
}

// insert stores the booking and counts the promotion redemption together.
func (s *serviceImpl) insert(ctx context.Context, booking model.Booking, promo *promotionModel.Promotion) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		if promo == nil {
			return nil
		}

		if err := s.promoRepo.IncrementUsageTx(ctx, tx, promo.ID); err != nil {
			if errors.Is(err, promotionModel.ErrUsageLimitReached) {
				return failure.BadRequestFromString("promo code exhausted")
			}

			return err //nolint:wrapcheck
		}

		return nil
	})
	if failure.IsClientError(err) {
		return err
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return fmt.Errorf("failed to create booking: %w", err)
	}

	if promo != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cachePromotions)
		}()
	}

	return nil
}

// reprice validates new dates against the stored ones and recomputes the
// total with the stored add-ons and discount.
func (s *serviceImpl) reprice(ctx context.Context, req *dto.UpdateBookingRequest, current model.Booking) error {
	checkIn := current.CheckIn.Format(time.RFC3339)
	if req.CheckIn != constant.Empty {
		checkIn = req.CheckIn
	}

	checkOut := current.CheckOut.Format(time.RFC3339)
	if req.CheckOut != constant.Empty {
		checkOut = req.CheckOut
	}

	in, out, nights, err := dto.ParseStay(checkIn, checkOut)
	if err != nil {
		return err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(current.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.BadRequestFromString("the booked room no longer exists")
	}

	total := pricing.NewQuote(room.Price, nights, current.AddOns.Data).WithDiscount(current.Discount).Total

	req.CheckIn = in.Format(time.RFC3339)
	req.CheckOut = out.Format(time.RFC3339)
	req.TotalAmount = &total

	return nil
}

func (s *serviceImpl) guest(ctx context.Context, id string) (dto.Guest, error) {
	if id == constant.Empty {
		return dto.Guest{}, failure.Unauthorized("unauthorized")
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		return dto.Guest{}, fmt.Errorf("failed to get guest: %w", err)
	}

	if user.ID == constant.Empty {
		return dto.Guest{}, failure.NotFound("guest not found")
	}

	return dto.Guest{ID: user.ID, Email: user.Email, Name: user.DisplayName, Phone: user.Phone}, nil
}

// resolveRooms fills room name and type with one query for the whole page.
func (s *serviceImpl) resolveRooms(ctx context.Context, bookings []dto.BookingResponse) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		if !slices.Contains(ids, booking.RoomID) {
			ids = append(ids, booking.RoomID)
		}
	}

	rooms, err := s.roomRepo.GetByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve rooms")

		return fmt.Errorf("failed to resolve rooms: %w", err)
	}

	for i := range bookings {
		if room, ok := rooms[bookings[i].RoomID]; ok {
			bookings[i].WithRoom(room.Name, room.Type)
		}
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	if id == constant.Empty {
		return model.Booking{}, failure.NotFound("booking not found")
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) created(ctx context.Context, booking model.Booking) {
	s.invalidate(ctx)
	s.publish(ctx, events.TypeBookingCreated, booking)
}

func (s *serviceImpl) updated(ctx context.Context, booking model.Booking) {
	s.invalidate(ctx, booking.ID)
	s.publish(ctx, events.TypeBookingUpdated, booking)
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	payload := events.BookingPayload{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		RoomID:        booking.RoomID,
		BookingStatus: string(booking.Status()),
		PaymentStatus: string(booking.PaymentStatus),
		TotalAmount:   booking.TotalAmount,
	}

	events.PublishAsync(ctx, func(ctx context.Context) error {
		return s.publisher.PublishBooking(ctx, eventType, payload)
	})
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save bookings to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyAnalytics)
	}()
}
