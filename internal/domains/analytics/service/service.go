package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Analytics=MockAnalyticsService

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/analytics/aggregate"
	"hotel/internal/domains/analytics/model/dto"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	userModel "hotel/internal/domains/user/model"
	userRepo "hotel/internal/domains/user/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

const (
	cacheReport    = constant.CacheKeyAnalytics + ":report"
	cacheDashboard = constant.CacheKeyAnalytics + ":dashboard"

	argWindowStart = "window_start"
)

var (
	bookingColumns = []string{
		bookingModel.FieldID, bookingModel.FieldUserID, bookingModel.FieldRoomID, bookingModel.FieldTotalAmount,
		bookingModel.FieldPaymentStatus, bookingModel.FieldBookingStatus, constant.FieldCreatedAt,
	}
	guestColumns = []string{userModel.FieldID, userModel.FieldRole, userModel.FieldLoyaltyStatus, userModel.FieldIsVIP}
	roomColumns  = []string{roomModel.FieldID, roomModel.FieldType}
)

type Analytics interface {
	Report(ctx context.Context, timeRange string) (dto.ReportResponse, error)
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	Export(ctx context.Context, timeRange, format string) (dto.ExportFile, error)
}

type serviceImpl struct {
	bookings bookingRepo.Booking
	users    userRepo.User
	rooms    roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(bookings bookingRepo.Booking, users userRepo.User, rooms roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Analytics {
	return &serviceImpl{
		bookings: bookings,
		users:    users,
		rooms:    rooms,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Report(ctx context.Context, timeRange string) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".analytics.Report")
	defer scope.End()
	defer scope.TraceIfError(err)

	window, err := aggregate.ParseRange(timeRange)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	cacheKey := shared.BuildCacheKey(cacheReport, string(window))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for analytics report")

		return res, nil
	}

	now := timezone.Now()
	since := window.Start(now)

	in, err := s.load(ctx, since)
	if err != nil {
		return res, err
	}

	report := aggregate.Build(in, aggregate.Options{
		Start:             since,
		Location:          timezone.GetLocation(),
		OccupancyStatuses: s.occupying(),
	})

	res.FromReport(report, window, since, now)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".analytics.Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Get(ctx, cacheDashboard, &res); err == nil {
		return res, nil
	}

	var (
		summary     bookingModel.Summary
		totalRooms  int
		totalGuests int
		recent      []bookingModel.Booking
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary, err = s.bookings.Summary(gctx)

		return err
	})

	g.Go(func() (err error) {
		totalRooms, err = s.rooms.Count(gctx, gDto.NewFilterGroup())

		return err
	})

	g.Go(func() (err error) {
		totalGuests, err = s.users.Count(gctx, guestFilter())

		return err
	})

	g.Go(func() (err error) {
		params := gDto.QueryParams{Limit: s.cfg.Analytics.RecentBookings, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}
		recent, err = s.bookings.GetAll(gctx, params, gDto.NewFilterGroup())

		return err
	})

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load dashboard")

		return res, fmt.Errorf("failed to load dashboard: %w", err)
	}

	res.FromSummary(summary, totalRooms, totalGuests, s.cfg.Analytics.DashboardOccupancyDays)
	res.WithRecent(recent)

	if err = s.resolveRooms(ctx, &res); err != nil {
		return res, err
	}

	s.save(ctx, cacheDashboard, res)

	return res, nil
}

func (s *serviceImpl) Export(ctx context.Context, timeRange, format string) (res dto.ExportFile, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".analytics.Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	if format == constant.Empty {
		format = dto.FormatJSON
	}

	if format != dto.FormatJSON && format != dto.FormatXLSX {
		return res, failure.BadRequestFromString("format must be one of json, xlsx")
	}

	report, err := s.Report(ctx, timeRange)
	if err != nil {
		return res, err
	}

	window := aggregate.Range(report.TimeRange)
	res.Name = dto.ExportName(window, format, timezone.Now())

	switch format {
	case dto.FormatXLSX:
		res.ContentType = constant.ContentTypeXLSX
		res.Data, err = renderWorkbook(report)
	default:
		res.ContentType = constant.ContentTypeJSON
		res.Data, err = json.MarshalIndent(report, constant.Empty, "  ")
	}

	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("failed to render analytics export")

		return res, failure.InternalError(err)
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, since time.Time) (in aggregate.Input, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		filter := gDto.NewFilterGroup()
		filter.Cmp(bookingModel.TableName, constant.FieldCreatedAt, gDto.FilterOperatorGreaterEq, argWindowStart, since)

		in.Bookings, err = s.bookings.GetAll(gctx, gDto.QueryParams{}, filter, bookingColumns...)

		return err
	})

	g.Go(func() (err error) {
		in.Guests, err = s.users.GetAll(gctx, gDto.QueryParams{}, guestFilter(), guestColumns...)

		return err
	})

	g.Go(func() (err error) {
		in.Rooms, err = s.rooms.GetAll(gctx, gDto.QueryParams{}, gDto.NewFilterGroup(), roomColumns...)

		return err
	})

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load analytics input")

		return in, fmt.Errorf("failed to load analytics input: %w", err)
	}

	return in, nil
}

func (s *serviceImpl) resolveRooms(ctx context.Context, res *dto.DashboardResponse) error {
	ids := make([]string, 0, len(res.RecentBookings))
	for _, booking := range res.RecentBookings {
		if !slices.Contains(ids, booking.RoomID) {
			ids = append(ids, booking.RoomID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	rooms, err := s.rooms.GetByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve rooms")

		return fmt.Errorf("failed to resolve rooms: %w", err)
	}

	for i := range res.RecentBookings {
		if room, ok := rooms[res.RecentBookings[i].RoomID]; ok {
			res.RecentBookings[i].WithRoom(room.Name, room.Type)
		}
	}

	return nil
}

func (s *serviceImpl) occupying() []bookingModel.BookingStatus {
	statuses := make([]bookingModel.BookingStatus, len(s.cfg.Analytics.OccupancyStatuses))
	for i, status := range s.cfg.Analytics.OccupancyStatuses {
		statuses[i] = bookingModel.BookingStatus(status)
	}

	return statuses
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save analytics to cache")
		}
	}()
}

func guestFilter() gDto.FilterGroup {
	filter := gDto.NewFilterGroup()
	filter.Eq(userModel.TableName, userModel.FieldRole, constant.RoleUser)

	return filter
}
