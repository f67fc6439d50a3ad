package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	"estatehub/internal/domains/blockeddate/model"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	gRepo "estatehub/shared/repository"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Decide receives the locked facility and whether the day is already blocked, and
// returns the block to insert or an error to abort.
type Decide func(facility facilityModel.Facility, blocked bool) (model.BlockedDate, error)

type BlockedDate interface {
	BlockChecked(ctx context.Context, facilityName, day string, decide Decide) (model.BlockedDate, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BlockedDate, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BlockedDate, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.BlockedDate]
	facilities gRepo.Repository[facilityModel.Facility]
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) BlockedDate {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.BlockedDate](model.EntityName, model.TableName, model.FieldID, db, otel),
		facilities: gRepo.NewRepository[facilityModel.Facility](facilityModel.EntityName, facilityModel.TableName, facilityModel.FieldID, db, otel),
		otel:       otel,
	}
}

// BlockChecked takes the same facility row lock as booking creation, so a booking
// validated against the old calendar cannot commit on the day being blocked.
func (r *repositoryImpl) BlockChecked(ctx context.Context, facilityName, day string, decide Decide) (blocked model.BlockedDate, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".blockeddate.BlockChecked")
	defer scope.End()

	err = r.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		facility, err := r.facilities.GetForUpdateTx(ctx, sqltx, shared.FilterEq(facilityModel.TableName, map[string]string{
			facilityModel.FieldName: facilityName,
		}))
		if err != nil {
			return fmt.Errorf("failed to lock facility: %w", err)
		}

		exist := false

		if facility.Exists() {
			exist, err = r.ExistTx(ctx, sqltx, shared.FilterEq(model.TableName, map[string]string{
				model.FieldFacilityID:  facility.ID,
				model.FieldBlockedDate: day,
			}))
			if err != nil {
				return fmt.Errorf("failed to check blocked date: %w", err)
			}
		}

		blocked, err = decide(facility, exist)
		if err != nil {
			return err
		}

		return r.InsertTx(ctx, sqltx, blocked) //nolint:wrapcheck
	})
	if err != nil {
		scope.TraceIfError(err)

		return model.BlockedDate{}, err
	}

	return blocked, nil
}
