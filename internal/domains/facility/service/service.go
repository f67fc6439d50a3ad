package service

import (
	"context"
	"estatehub/config"
	"estatehub/infras/otel"
	"estatehub/internal/domains/facility/model"
	"estatehub/internal/domains/facility/model/dto"
	"estatehub/internal/domains/facility/repository"
	"estatehub/shared"
	"estatehub/shared/cache"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetFacility    = "facility:get"
	cacheGetAllFacility = "facility:gets"
	cacheCountFacility  = "facility:count"

	errFacilityNotFound  = "facility not found"
	errFacilityDuplicate = "a facility named %q already exists"
	errFacilityInUse     = "facility %q still has pending or approved bookings"
)

type Facility interface {
	Create(ctx context.Context, req dto.CreateFacilityRequest) (dto.FacilityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFacilitiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.FacilityResponse, error)
	Update(ctx context.Context, req dto.UpdateFacilityRequest, id string) error
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (dto.FacilityResponse, error)
}

type serviceImpl struct {
	repo  repository.Facility
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Facility, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Facility {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateFacilityRequest) (res dto.FacilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	if err = s.ensureUniqueName(ctx, req.Name, constant.Empty); err != nil {
		return res, err
	}

	facility := req.ToModel(user)

	if err = s.repo.Insert(ctx, facility); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict(fmt.Sprintf(errFacilityDuplicate, req.Name))
		}

		log.Error().Err(err).Msg("failed to insert facility")

		return res, fmt.Errorf("failed to create facility: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(facility)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFacilitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllFacility, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for facilities")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count facilities")

		return res, fmt.Errorf("failed to count facilities: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get facilities")

		return res, fmt.Errorf("failed to get facilities: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save facilities to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountFacility, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for facility count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count facilities")

		return res, fmt.Errorf("failed to count facilities: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save facility count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FacilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetFacility, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for facility")

		return res, nil
	}

	facility, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(facility)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save facility to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateFacilityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != constant.Empty && req.Name != current.Name {
		if err = s.ensureUniqueName(ctx, req.Name, id); err != nil {
			return err
		}
	}

	err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict(fmt.Sprintf(errFacilityDuplicate, req.Name))
		}

		log.Error().Err(err).Str("id", id).Msg("failed to update facility")

		return fmt.Errorf("failed to update facility: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	facility, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.repo.HasActiveBookings(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check facility bookings")

		return fmt.Errorf("failed to delete facility: %w", err)
	}

	if inUse {
		return failure.Conflict(fmt.Sprintf(errFacilityInUse, facility.Name))
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete facility")

		return fmt.Errorf("failed to delete facility: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ToggleStatus flips a facility between available and maintenance.
func (s *serviceImpl) ToggleStatus(ctx context.Context, id string) (res dto.FacilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".facility.ToggleStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	facility, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	facility.Status = facility.ToggledStatus()

	update := dto.UpdateFacilityRequest{Status: facility.Status}
	if err = s.repo.Update(ctx, shared.TransformFields(update, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to toggle facility status")

		return res, fmt.Errorf("failed to toggle facility status: %w", err)
	}

	s.invalidate(ctx, id)

	res.FromModel(facility)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Facility, error) {
	facility, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get facility")

		return facility, fmt.Errorf("failed to get facility: %w", err)
	}

	if !facility.Exists() {
		return facility, failure.NotFound(errFacilityNotFound)
	}

	return facility, nil
}

// ensureUniqueName rejects a name already used by a facility other than exceptID.
func (s *serviceImpl) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorEq, Value: name, Table: model.TableName},
		},
	}

	if exceptID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: exceptID, Table: model.TableName})
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to check facility name")

		return fmt.Errorf("failed to check facility name: %w", err)
	}

	if exist {
		return failure.Conflict(fmt.Sprintf(errFacilityDuplicate, name))
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetFacility, id)); err != nil {
				log.Error().Err(err).Str("id", id).Msg("failed to delete facility cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllFacility)
		shared.InvalidateCaches(c, s.cache, cacheCountFacility)
	}()
}
