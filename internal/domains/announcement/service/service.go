package service

import (
	"context"
	"estatehub/config"
	"estatehub/infras/otel"
	"estatehub/internal/domains/announcement/model"
	"estatehub/internal/domains/announcement/model/dto"
	"estatehub/internal/domains/announcement/repository"
	"estatehub/shared"
	"estatehub/shared/cache"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllAnnouncement = "announcement:gets"
	cacheCountAnnouncement  = "announcement:count"

	errAnnouncementNotFound = "announcement not found"
	errInvalidDate          = "scheduledDate must use the yyyy-MM-dd format"
)

type Announcement interface {
	Create(ctx context.Context, req dto.CreateAnnouncementRequest) (dto.AnnouncementResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAnnouncementsResponse, error)
	Delete(ctx context.Context, id string) error
	Feed(ctx context.Context, req gDto.QueryParams) (dto.GetFeedResponse, error)
	MarkRead(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Announcement
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Announcement, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Announcement {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAnnouncementRequest) (res dto.AnnouncementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)
	today := timezone.Date(timezone.Now())

	scheduled := today

	if req.ScheduledDate != constant.Empty {
		if scheduled, err = timezone.ParseDate(req.ScheduledDate); err != nil {
			return res, failure.BadRequestFromString(errInvalidDate)
		}
	}

	announcement := req.ToModel(scheduled, user)

	if err = s.repo.Insert(ctx, announcement); err != nil {
		log.Error().Err(err).Msg("failed to insert announcement")

		return res, fmt.Errorf("failed to create announcement: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(announcement, today)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAnnouncementsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAnnouncement, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for announcements")

		return res, nil
	}

	countKey := shared.BuildCacheKeyWithQuery(cacheCountAnnouncement, req, filter)

	var total int
	if err = s.cache.Get(ctx, countKey, &total); err != nil {
		if total, err = s.repo.Count(ctx, filter); err != nil {
			log.Error().Err(err).Msg("failed to count announcements")

			return res, fmt.Errorf("failed to count announcements: %w", err)
		}
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get announcements")

		return res, fmt.Errorf("failed to get announcements: %w", err)
	}

	res.FromModels(models, timezone.Date(timezone.Now()), total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, countKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save announcement count to cache")
		}

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save announcements to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete announcement")

		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// Feed lists what the caller's audience may see today, minus what they dismissed.
func (s *serviceImpl) Feed(ctx context.Context, req gDto.QueryParams) (res dto.GetFeedResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.Feed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := s.feedQuery(ctx)

	total, err := s.repo.CountFeed(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to count announcement feed")

		return res, fmt.Errorf("failed to get announcement feed: %w", err)
	}

	items, err := s.repo.Feed(ctx, query, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to get announcement feed")

		return res, fmt.Errorf("failed to get announcement feed: %w", err)
	}

	res.FromModels(items, query.Today, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, err := s.visible(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.MarkRead(ctx, id, query.UserID, timezone.Now()); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to mark announcement read")

		return fmt.Errorf("failed to mark announcement read: %w", err)
	}

	return nil
}

func (s *serviceImpl) Dismiss(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".announcement.Dismiss")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, err := s.visible(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Dismiss(ctx, id, query.UserID, timezone.Now()); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to dismiss announcement")

		return fmt.Errorf("failed to dismiss announcement: %w", err)
	}

	return nil
}

// visible hides announcements outside the caller's audience or not yet due.
func (s *serviceImpl) visible(ctx context.Context, id string) (repository.FeedQuery, error) {
	query := s.feedQuery(ctx)

	announcement, err := s.find(ctx, id)
	if err != nil {
		return query, err
	}

	if !slices.Contains(query.Audiences, announcement.Audience) || !announcement.Due(query.Today) {
		return query, failure.NotFound(errAnnouncementNotFound)
	}

	return query, nil
}

func (s *serviceImpl) feedQuery(ctx context.Context) repository.FeedQuery {
	user, role := shared.Actor(ctx)

	return repository.FeedQuery{
		UserID:    user,
		Audiences: model.Audiences(shared.IsAdmin(role)),
		Today:     timezone.Date(timezone.Now()),
	}
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Announcement, error) {
	announcement, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get announcement")

		return announcement, fmt.Errorf("failed to get announcement: %w", err)
	}

	if !announcement.Exists() {
		return announcement, failure.NotFound(errAnnouncementNotFound)
	}

	return announcement, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllAnnouncement)
		shared.InvalidateCaches(c, s.cache, cacheCountAnnouncement)
	}()
}
