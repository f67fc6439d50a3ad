package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/facility/model"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/logger"
	gRepo "estatehub/shared/repository"
	"fmt"
)

const queryHasActiveBookings = `SELECT EXISTS(SELECT 1 FROM bookings WHERE facility_id = $1 AND status IN ('pending', 'approved'))`

type Facility interface {
	Insert(ctx context.Context, model model.Facility) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Facility, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Facility, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	HasActiveBookings(ctx context.Context, facilityID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Facility]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Facility {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Facility](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// HasActiveBookings reports whether a pending or approved booking still references the facility.
func (r *repositoryImpl) HasActiveBookings(ctx context.Context, facilityID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".facility.HasActiveBookings")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryHasActiveBookings)

	var exist bool
	if err := r.db.Read.GetContext(ctx, &exist, queryHasActiveBookings, facilityID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check active bookings (%s): %w", model.EntityName, err)
	}

	return exist, nil
}
