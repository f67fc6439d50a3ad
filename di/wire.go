//go:build wireinject
// +build wireinject

package di

import (
	"estatehub/config"
	"estatehub/infras/jwt"
	"estatehub/infras/kafka"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/infras/redis"
	"estatehub/permissions"
	"estatehub/shared/cache"
	"estatehub/transport/http"
	"estatehub/transport/http/middleware"
	"estatehub/transport/http/router"

	"github.com/google/wire"

	announcementRepository "estatehub/internal/domains/announcement/repository"
	announcementService "estatehub/internal/domains/announcement/service"
	announcementHandler "estatehub/internal/handlers/announcement"

	blockedDateRepository "estatehub/internal/domains/blockeddate/repository"
	blockedDateService "estatehub/internal/domains/blockeddate/service"
	blockedDateHandler "estatehub/internal/handlers/blockeddate"

	bookingEvent "estatehub/internal/domains/booking/event"
	bookingRepository "estatehub/internal/domains/booking/repository"
	bookingService "estatehub/internal/domains/booking/service"
	bookingHandler "estatehub/internal/handlers/booking"

	facilityRepository "estatehub/internal/domains/facility/repository"
	facilityService "estatehub/internal/domains/facility/service"
	facilityHandler "estatehub/internal/handlers/facility"

	feeRepository "estatehub/internal/domains/fee/repository"
	feeService "estatehub/internal/domains/fee/service"
	feeHandler "estatehub/internal/handlers/fee"

	reportRepository "estatehub/internal/domains/report/repository"
	reportService "estatehub/internal/domains/report/service"
	reportHandler "estatehub/internal/handlers/report"

	visitorRepository "estatehub/internal/domains/visitor/repository"
	visitorService "estatehub/internal/domains/visitor/service"
	visitorHandler "estatehub/internal/handlers/visitor"
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
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var facilityDomain = wire.NewSet(
	facilityRepository.New,
	facilityService.New,
)

var blockedDateDomain = wire.NewSet(
	blockedDateRepository.New,
	blockedDateService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingEvent.New,
	bookingService.New,
)

var feeDomain = wire.NewSet(
	feeRepository.New,
	feeService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var visitorDomain = wire.NewSet(
	visitorRepository.New,
	visitorService.New,
)

var announcementDomain = wire.NewSet(
	announcementRepository.New,
	announcementService.New,
)

var domains = wire.NewSet(
	facilityDomain,
	blockedDateDomain,
	bookingDomain,
	feeDomain,
	reportDomain,
	visitorDomain,
	announcementDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	facilityHandler.New,
	blockedDateHandler.New,
	bookingHandler.New,
	feeHandler.New,
	reportHandler.New,
	visitorHandler.New,
	announcementHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
