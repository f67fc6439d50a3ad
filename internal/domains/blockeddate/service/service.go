package service

import (
	"context"
	"estatehub/config"
	"estatehub/infras/otel"
	"estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/blockeddate/model/dto"
	"estatehub/internal/domains/blockeddate/repository"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	"estatehub/shared/cache"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBlockedDate = "blockeddate:gets"

	errFacilityNotFound    = "facility not found"
	errBlockedDateNotFound = "blocked date not found"
	errInvalidDate         = "date must use the yyyy-MM-dd format"
	errAlreadyBlocked      = "facility %s is already blocked on %s"
)

type BlockedDate interface {
	Block(ctx context.Context, req dto.BlockDateRequest) (dto.BlockedDateResponse, error)
	Unblock(ctx context.Context, id string) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBlockedDatesResponse, error)
}

type serviceImpl struct {
	repo  repository.BlockedDate
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.BlockedDate, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) BlockedDate {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Block closes a facility for a whole day. A day is blocked at most once per facility.
func (s *serviceImpl) Block(ctx context.Context, req dto.BlockDateRequest) (res dto.BlockedDateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockeddate.Block")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	date, err := timezone.ParseDate(req.Date)
	if err != nil {
		return res, failure.BadRequestFromString(errInvalidDate)
	}

	blocked, err := s.repo.BlockChecked(ctx, req.FacilityName, req.Date, func(facility facilityModel.Facility, exist bool) (model.BlockedDate, error) {
		if !facility.Exists() {
			return model.BlockedDate{}, failure.NotFound(errFacilityNotFound)
		}

		if exist {
			return model.BlockedDate{}, failure.Conflict(fmt.Sprintf(errAlreadyBlocked, facility.Name, req.Date))
		}

		return req.ToModel(facility, date, user), nil
	})
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict(fmt.Sprintf(errAlreadyBlocked, req.FacilityName, req.Date))
		}

		if failure.GetCode(err) != http.StatusInternalServerError {
			return res, err
		}

		log.Error().Err(err).Str("facility", req.FacilityName).Msg("failed to insert blocked date")

		return res, fmt.Errorf("failed to block date: %w", err)
	}

	s.invalidate(ctx)

	log.Info().Str("facility", blocked.FacilityName).Str("date", req.Date).Str("reason", req.Reason).Msg("facility blocked")

	res.FromModel(blocked)

	return res, nil
}

func (s *serviceImpl) Unblock(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockeddate.Unblock")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check blocked date")

		return fmt.Errorf("failed to unblock date: %w", err)
	}

	if !exist {
		return failure.NotFound(errBlockedDateNotFound)
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete blocked date")

		return fmt.Errorf("failed to unblock date: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBlockedDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockeddate.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBlockedDate, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blocked dates")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count blocked dates")

		return res, fmt.Errorf("failed to count blocked dates: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked dates")

		return res, fmt.Errorf("failed to get blocked dates: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blocked dates to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllBlockedDate)
	}()
}
