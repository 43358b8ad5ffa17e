//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/internal/events"
	"hotel/internal/workers/loyalty"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	analyticsService "hotel/internal/domains/analytics/service"
	authService "hotel/internal/domains/auth/service"
	bookingRepository "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	galleryRepository "hotel/internal/domains/gallery/repository"
	galleryService "hotel/internal/domains/gallery/service"
	inventoryRepository "hotel/internal/domains/inventory/repository"
	inventoryService "hotel/internal/domains/inventory/service"
	messageRepository "hotel/internal/domains/message/repository"
	messageService "hotel/internal/domains/message/service"
	promotionRepository "hotel/internal/domains/promotion/repository"
	promotionService "hotel/internal/domains/promotion/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	settingsRepository "hotel/internal/domains/settings/repository"
	settingsService "hotel/internal/domains/settings/service"
	userRepository "hotel/internal/domains/user/repository"
	userService "hotel/internal/domains/user/service"

	analyticsHandler "hotel/internal/handlers/analytics"
	authHandler "hotel/internal/handlers/auth"
	bookingHandler "hotel/internal/handlers/booking"
	galleryHandler "hotel/internal/handlers/gallery"
	inventoryHandler "hotel/internal/handlers/inventory"
	messageHandler "hotel/internal/handlers/message"
	promotionHandler "hotel/internal/handlers/promotion"
	roomHandler "hotel/internal/handlers/room"
	settingsHandler "hotel/internal/handlers/settings"
	userHandler "hotel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	events.NewPublisher,
)

var transactions = wire.NewSet(
	wire.Bind(new(bookingService.Transactor), new(*postgres.Connection)),
	wire.Bind(new(galleryService.Transactor), new(*postgres.Connection)),
	wire.Bind(new(inventoryService.Transactor), new(*postgres.Connection)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	wire.Bind(new(userService.StayHistory), new(bookingRepository.Booking)),
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var promotionDomain = wire.NewSet(
	promotionRepository.New,
	promotionService.New,
)

var settingsDomain = wire.NewSet(
	settingsRepository.New,
	settingsService.New,
)

var galleryDomain = wire.NewSet(
	galleryRepository.New,
	galleryService.New,
)

var inventoryDomain = wire.NewSet(
	inventoryRepository.NewMaintenance,
	inventoryRepository.NewBlock,
	inventoryService.NewMaintenance,
	inventoryService.NewBlock,
)

var messageDomain = wire.NewSet(
	messageRepository.New,
	messageService.New,
)

var analyticsDomain = wire.NewSet(
	analyticsService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	bookingDomain,
	promotionDomain,
	settingsDomain,
	galleryDomain,
	inventoryDomain,
	messageDomain,
	analyticsDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	userHandler.New,
	promotionHandler.New,
	settingsHandler.New,
	galleryHandler.New,
	inventoryHandler.New,
	messageHandler.New,
	analyticsHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		transactions,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *loyalty.Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		userRepository.New,
		userService.New,
		bookingRepository.New,
		wire.Bind(new(userService.StayHistory), new(bookingRepository.Booking)),
		loyalty.New,
	)

	return &loyalty.Worker{}
}
