package service

import (
	"context"
	"errors"
	"estatehub/infras/otel"
	"estatehub/internal/domains/visitor/model"
	"estatehub/internal/domains/visitor/model/dto"
	"estatehub/internal/domains/visitor/repository"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/passcode"
	"estatehub/shared/timezone"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	errVisitorNotFound   = "visitor not found"
	errVisitorCheckedOut = "visitor has already checked out"
	errPassCodeMismatch  = "pass code does not match"
)

type Visitor interface {
	CheckIn(ctx context.Context, req dto.CheckInRequest) (dto.VisitorPassResponse, error)
	CheckOut(ctx context.Context, req dto.CheckOutRequest, id string) (dto.VisitorResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVisitorsResponse, error)
	Get(ctx context.Context, id string) (dto.VisitorResponse, error)
}

type serviceImpl struct {
	repo repository.Visitor
	otel otel.Otel
}

func New(repo repository.Visitor, otel otel.Otel) Visitor {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// CheckIn registers a visitor for the caller and issues a gate pass code.
// Only the bcrypt hash of the code is stored.
func (s *serviceImpl) CheckIn(ctx context.Context, req dto.CheckInRequest) (res dto.VisitorPassResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)

	code, err := passcode.Generate()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate pass code")

		return res, fmt.Errorf("failed to check in visitor: %w", err)
	}

	hash, err := passcode.Hash(code)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash pass code")

		return res, fmt.Errorf("failed to check in visitor: %w", err)
	}

	visitor := req.ToModel(hash, user)

	if err = s.repo.Insert(ctx, visitor); err != nil {
		log.Error().Err(err).Msg("failed to insert visitor")

		return res, fmt.Errorf("failed to check in visitor: %w", err)
	}

	res.FromModel(visitor)
	res.PassCode = code

	return res, nil
}

// CheckOut closes a visit. The host resident may check out without the pass code,
// admins at the gate must present it.
func (s *serviceImpl) CheckOut(ctx context.Context, req dto.CheckOutRequest, id string) (res dto.VisitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.CheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, role := shared.Actor(ctx)

	visitor, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if visitor.ResidentID != user {
		if !shared.IsAdmin(role) {
			return res, failure.ResourceRestrictedError
		}

		if err = passcode.Verify(req.PassCode, visitor.PassCodeHash); err != nil {
			if errors.Is(err, passcode.ErrInvalidCode) {
				return res, failure.Forbidden(errPassCodeMismatch)
			}

			log.Error().Err(err).Str("id", id).Msg("failed to verify pass code")

			return res, fmt.Errorf("failed to check out visitor: %w", err)
		}
	}

	if !visitor.CheckedIn() {
		return res, failure.Conflict(errVisitorCheckedOut)
	}

	now := timezone.Now()

	affected, err := s.repo.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        model.StatusCheckedOut,
		model.FieldCheckOutAt:    now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}, shared.FilterEq(model.TableName, map[string]string{
		model.FieldID:     id,
		model.FieldStatus: model.StatusCheckedIn,
	}))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check out visitor")

		return res, fmt.Errorf("failed to check out visitor: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict(errVisitorCheckedOut)
	}

	visitor.Status = model.StatusCheckedOut
	visitor.CheckOutAt = &now
	visitor.ModifiedAt = now
	visitor.ModifiedBy = user

	res.FromModel(visitor)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVisitorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = shared.RestrictToOwner(ctx, filter, model.TableName, model.FieldResidentID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count visitors")

		return res, fmt.Errorf("failed to count visitors: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitors")

		return res, fmt.Errorf("failed to get visitors: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VisitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	visitor, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if user, role := shared.Actor(ctx); !shared.IsAdmin(role) && visitor.ResidentID != user {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(visitor)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Visitor, error) {
	visitor, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get visitor")

		return visitor, fmt.Errorf("failed to get visitor: %w", err)
	}

	if !visitor.Exists() {
		return visitor, failure.NotFound(errVisitorNotFound)
	}

	return visitor, nil
}
