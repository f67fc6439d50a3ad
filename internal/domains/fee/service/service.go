package service

import (
	"context"
	"estatehub/config"
	"estatehub/infras/otel"
	"estatehub/internal/domains/fee/model"
	"estatehub/internal/domains/fee/model/dto"
	"estatehub/internal/domains/fee/repository"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	errFeeNotFound  = "fee not found"
	errFeeDuplicate = "unit %s/%s/%s already has a fee for %s"
	errFeePaid      = "fee is already paid"
	errInvalidDate  = "dueDate must use the yyyy-MM-dd format"
)

type Fee interface {
	Generate(ctx context.Context, req dto.GenerateFeeRequest) (dto.FeeResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFeesResponse, error)
	Get(ctx context.Context, id string) (dto.FeeResponse, error)
	Pay(ctx context.Context, req dto.PayFeeRequest, id string) (dto.FeeResponse, error)
	MarkOverdue(ctx context.Context) (dto.MarkOverdueResponse, error)
}

type serviceImpl struct {
	repo repository.Fee
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Fee, cfg *config.Config, otel otel.Otel) Fee {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

// Generate issues one fee per unit and period.
func (s *serviceImpl) Generate(ctx context.Context, req dto.GenerateFeeRequest) (res dto.FeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".fee.Generate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	dueDate, err := timezone.ParseDate(req.DueDate)
	if err != nil {
		return res, failure.BadRequestFromString(errInvalidDate)
	}

	duplicate := fmt.Sprintf(errFeeDuplicate, req.Block, req.Floor, req.Unit, req.Period)

	exist, err := s.repo.Exist(ctx, shared.FilterEq(model.TableName, map[string]string{
		model.FieldBlock:  req.Block,
		model.FieldFloor:  req.Floor,
		model.FieldUnit:   req.Unit,
		model.FieldPeriod: req.Period,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing fee")

		return res, fmt.Errorf("failed to generate fee: %w", err)
	}

	if exist {
		return res, failure.Conflict(duplicate)
	}

	fee := req.ToModel(dueDate, user)

	if err = s.repo.Insert(ctx, fee); err != nil {
		if shared.IsUniqueViolation(err) {
			return res, failure.Conflict(duplicate)
		}

		log.Error().Err(err).Msg("failed to insert fee")

		return res, fmt.Errorf("failed to generate fee: %w", err)
	}

	res.FromModel(fee)

	return res, nil
}

// GetAll returns every fee to admins and only their own to residents.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFeesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".fee.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = shared.RestrictToOwner(ctx, filter, model.TableName, model.FieldResidentID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count fees")

		return res, fmt.Errorf("failed to count fees: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get fees")

		return res, fmt.Errorf("failed to get fees: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".fee.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	fee, err := s.findOwned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(fee)

	return res, nil
}

// Pay settles a pending or overdue fee. The conditional update loses to a concurrent payment.
func (s *serviceImpl) Pay(ctx context.Context, req dto.PayFeeRequest, id string) (res dto.FeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".fee.Pay")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	fee, err := s.findOwned(ctx, id)
	if err != nil {
		return res, err
	}

	if fee.Paid() {
		return res, failure.Conflict(errFeePaid)
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorIn,
		Value:    model.PayableStatuses,
		Table:    model.TableName,
	})

	now := timezone.Now()

	affected, err := s.repo.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        model.StatusPaid,
		model.FieldPaidAt:        now,
		model.FieldPaymentMethod: req.Method,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to pay fee")

		return res, fmt.Errorf("failed to pay fee: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict(errFeePaid)
	}

	fee.Status = model.StatusPaid
	fee.PaidAt = &now
	fee.PaymentMethod = req.Method
	fee.ModifiedAt = now
	fee.ModifiedBy = user

	log.Info().Str("fee", id).Str("method", req.Method).Str("actor", user).Msg("fee paid")

	res.FromModel(fee)

	return res, nil
}

// MarkOverdue flags pending fees whose due date is before today.
func (s *serviceImpl) MarkOverdue(ctx context.Context) (res dto.MarkOverdueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".fee.MarkOverdue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)
	today := timezone.Date(timezone.Now())

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusPending,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDueDate,
				Operator: gDto.FilterOperatorLess,
				Value:    timezone.FormatDate(today),
				Table:    model.TableName,
			},
		},
	}

	res.Updated, err = s.repo.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        model.StatusOverdue,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to mark overdue fees")

		return res, fmt.Errorf("failed to mark overdue fees: %w", err)
	}

	log.Info().Int64("updated", res.Updated).Msg("overdue fees marked")

	return res, nil
}

func (s *serviceImpl) findOwned(ctx context.Context, id string) (model.Fee, error) {
	fee, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get fee")

		return fee, fmt.Errorf("failed to get fee: %w", err)
	}

	if !fee.Exists() {
		return fee, failure.NotFound(errFeeNotFound)
	}

	if user, role := shared.Actor(ctx); !shared.IsAdmin(role) && fee.ResidentID != user {
		return fee, failure.ResourceRestrictedError
	}

	return fee, nil
}
