package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/announcement/model"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/logger"
	gRepo "estatehub/shared/repository"
	"estatehub/shared/timezone"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	feedFrom = ` FROM announcements a
		LEFT JOIN announcement_receipts r ON r.announcement_id = a.id AND r.user_id = $1
		WHERE a.audience = ANY($2) AND a.scheduled_date <= $3 AND r.dismissed_at IS NULL`

	queryFeed = `SELECT a.id, a.title, a.message, a.type, a.audience, a.scheduled_date, a.sent_at, a.status,
		a.created_at, a.modified_at, a.created_by, a.modified_by, r.read_at` + feedFrom + `
		ORDER BY a.scheduled_date DESC, a.created_at DESC LIMIT $4 OFFSET $5`

	queryCountFeed = `SELECT COUNT(a.id)` + feedFrom

	queryMarkRead = `INSERT INTO announcement_receipts (announcement_id, user_id, read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (announcement_id, user_id)
		DO UPDATE SET read_at = COALESCE(announcement_receipts.read_at, EXCLUDED.read_at)`

	queryDismiss = `INSERT INTO announcement_receipts (announcement_id, user_id, read_at, dismissed_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (announcement_id, user_id)
		DO UPDATE SET read_at = COALESCE(announcement_receipts.read_at, EXCLUDED.read_at),
			dismissed_at = EXCLUDED.dismissed_at`
)

// FeedQuery selects what one user may see on one day.
type FeedQuery struct {
	UserID    string
	Audiences []string
	Today     time.Time
}

type Announcement interface {
	Insert(ctx context.Context, model model.Announcement) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Announcement, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Announcement, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Feed(ctx context.Context, query FeedQuery, params gDto.QueryParams) ([]model.FeedItem, error)
	CountFeed(ctx context.Context, query FeedQuery) (int, error)
	MarkRead(ctx context.Context, announcementID, userID string, at time.Time) error
	Dismiss(ctx context.Context, announcementID, userID string, at time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Announcement]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Announcement {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Announcement](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Feed joins each announcement with the caller's receipt and drops the dismissed ones.
func (r *repositoryImpl) Feed(ctx context.Context, query FeedQuery, params gDto.QueryParams) ([]model.FeedItem, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".announcement.Feed")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryFeed)

	limit := params.Limit
	if limit <= 0 {
		limit = constant.DefaultValueLimit
	}

	offset := 0
	if params.Page > 1 {
		offset = (params.Page - 1) * limit
	}

	items := []model.FeedItem{}

	err := r.db.Read.SelectContext(ctx, &items, queryFeed,
		query.UserID, pq.Array(query.Audiences), timezone.FormatDate(query.Today), limit, offset)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get feed (%s): %w", model.EntityName, err)
	}

	return items, nil
}

func (r *repositoryImpl) CountFeed(ctx context.Context, query FeedQuery) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".announcement.CountFeed")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCountFeed)

	var total int

	err := r.db.Read.GetContext(ctx, &total, queryCountFeed,
		query.UserID, pq.Array(query.Audiences), timezone.FormatDate(query.Today))
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count feed (%s): %w", model.EntityName, err)
	}

	return total, nil
}

// MarkRead keeps the first read time.
func (r *repositoryImpl) MarkRead(ctx context.Context, announcementID, userID string, at time.Time) error {
	return r.upsertReceipt(ctx, ".announcement.MarkRead", queryMarkRead, announcementID, userID, at)
}

// Dismiss also marks the announcement read.
func (r *repositoryImpl) Dismiss(ctx context.Context, announcementID, userID string, at time.Time) error {
	return r.upsertReceipt(ctx, ".announcement.Dismiss", queryDismiss, announcementID, userID, at)
}

func (r *repositoryImpl) upsertReceipt(ctx context.Context, scopeName, query, announcementID, userID string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+scopeName)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := r.db.Write.ExecContext(ctx, query, announcementID, userID, at); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to save receipt (%s): %w", model.EntityName, err)
	}

	return nil
}
