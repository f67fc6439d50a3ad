package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/infras/postgres"
	blockedModel "estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/booking/availability"
	"estatehub/internal/domains/booking/model"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	gRepo "estatehub/shared/repository"
	"estatehub/shared/timezone"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const errConcurrentChange = "booking was changed by someone else, reload and try again"

// Criteria selects the facility and day a new booking competes for.
type Criteria struct {
	FacilityName string
	Date         time.Time
}

// Decide inspects the locked snapshot and returns the booking to insert, or an error to abort.
type Decide func(snap availability.Snapshot) (model.Booking, error)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CreateChecked(ctx context.Context, criteria Criteria, decide Decide) (model.Booking, error)
	TransitionStatus(ctx context.Context, id, from, to, user string) error
	Snapshot(ctx context.Context, facilityName string, date time.Time) (availability.Snapshot, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	facilities gRepo.Repository[facilityModel.Facility]
	blocks     gRepo.Repository[blockedModel.BlockedDate]
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		facilities: gRepo.NewRepository[facilityModel.Facility](facilityModel.EntityName, facilityModel.TableName, facilityModel.FieldID, db, otel),
		blocks:     gRepo.NewRepository[blockedModel.BlockedDate](blockedModel.EntityName, blockedModel.TableName, blockedModel.FieldID, db, otel),
		otel:       otel,
	}
}

// CreateChecked serializes bookings per facility on the facility row lock, so the
// snapshot handed to decide cannot change before the insert commits.
func (r *repositoryImpl) CreateChecked(ctx context.Context, criteria Criteria, decide Decide) (booking model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateChecked")
	defer scope.End()

	err = r.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		facility, err := r.facilities.GetForUpdateTx(ctx, sqltx, facilityByName(criteria.FacilityName))
		if err != nil {
			return fmt.Errorf("failed to lock facility: %w", err)
		}

		snap := availability.Snapshot{Facility: facility}

		if facility.Exists() {
			day := timezone.FormatDate(criteria.Date)

			snap.Blocks, err = r.blocks.GetAllTx(ctx, sqltx, gDto.QueryParams{}, blocksOn(facility.ID, day))
			if err != nil {
				return fmt.Errorf("failed to read blocked dates: %w", err)
			}

			snap.Bookings, err = r.GetAllTx(ctx, sqltx, gDto.QueryParams{}, activeOn(facility.ID, day))
			if err != nil {
				return fmt.Errorf("failed to read bookings: %w", err)
			}
		}

		booking, err = decide(snap)
		if err != nil {
			return err
		}

		return r.InsertTx(ctx, sqltx, booking) //nolint:wrapcheck
	})
	if err != nil {
		scope.TraceIfError(err)

		return model.Booking{}, err
	}

	return booking, nil
}

// TransitionStatus only updates a booking that is still in status from.
func (r *repositoryImpl) TransitionStatus(ctx context.Context, id, from, to, user string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.TransitionStatus")
	defer scope.End()

	filter := shared.FilterEq(model.TableName, map[string]string{
		model.FieldID:     id,
		model.FieldStatus: from,
	})

	affected, err := r.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict(errConcurrentChange)
	}

	return nil
}

// Snapshot reads a facility's day without locking, for display.
func (r *repositoryImpl) Snapshot(ctx context.Context, facilityName string, date time.Time) (snap availability.Snapshot, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Snapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	snap.Facility, err = r.facilities.Get(ctx, facilityByName(facilityName))
	if err != nil || !snap.Facility.Exists() {
		return snap, err //nolint:wrapcheck
	}

	day := timezone.FormatDate(date)

	if snap.Blocks, err = r.blocks.GetAll(ctx, gDto.QueryParams{}, blocksOn(snap.Facility.ID, day)); err != nil {
		return snap, err //nolint:wrapcheck
	}

	snap.Bookings, err = r.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldStartMinute, SortDir: gDto.SortDirAsc}, activeOn(snap.Facility.ID, day))

	return snap, err //nolint:wrapcheck
}

func facilityByName(name string) gDto.FilterGroup {
	return shared.FilterEq(facilityModel.TableName, map[string]string{facilityModel.FieldName: name})
}

func blocksOn(facilityID, day string) gDto.FilterGroup {
	return shared.FilterEq(blockedModel.TableName, map[string]string{
		blockedModel.FieldFacilityID:  facilityID,
		blockedModel.FieldBlockedDate: day,
	})
}

func activeOn(facilityID, day string) gDto.FilterGroup {
	group := shared.FilterEq(model.TableName, map[string]string{
		model.FieldFacilityID:  facilityID,
		model.FieldBookingDate: day,
	})

	group.Filters = append(group.Filters, gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorIn,
		Value:    model.ActiveStatuses,
		Table:    model.TableName,
	})

	return group
}
