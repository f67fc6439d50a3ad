package service

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/internal/domains/report/model"
	"estatehub/internal/domains/report/model/dto"
	"estatehub/internal/domains/report/repository"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

const (
	errReportNotFound = "report not found"
	errReportClosed   = "report is already %s"
	errReportStatus   = "report must be %s to be %s"
	errReportChanged  = "report was changed by someone else, reload and try again"
)

type Report interface {
	Submit(ctx context.Context, req dto.SubmitReportRequest) (dto.ReportResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReportsResponse, error)
	Get(ctx context.Context, id string) (dto.ReportResponse, error)
	Assign(ctx context.Context, req dto.AssignReportRequest, id string) (dto.ReportResponse, error)
	Resolve(ctx context.Context, req dto.CloseReportRequest, id string) (dto.ReportResponse, error)
	Reject(ctx context.Context, req dto.CloseReportRequest, id string) (dto.ReportResponse, error)
}

type serviceImpl struct {
	repo repository.Report
	otel otel.Otel
}

func New(repo repository.Report, otel otel.Otel) Report {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitReportRequest) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := shared.Actor(ctx)
	report := req.ToModel(user)

	if err = s.repo.Insert(ctx, report); err != nil {
		log.Error().Err(err).Msg("failed to insert report")

		return res, fmt.Errorf("failed to submit report: %w", err)
	}

	res.FromModel(report)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReportsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = shared.RestrictToOwner(ctx, filter, model.TableName, model.FieldResidentID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reports")

		return res, fmt.Errorf("failed to count reports: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reports")

		return res, fmt.Errorf("failed to get reports: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	report, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if user, role := shared.Actor(ctx); !shared.IsAdmin(role) && report.ResidentID != user {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(report)

	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignReportRequest, id string) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Assign")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, "assigned", model.StatusInProgress,
		[]string{model.StatusPending, model.StatusInProgress},
		map[string]any{model.FieldAssignee: req.Assignee},
	)
}

func (s *serviceImpl) Resolve(ctx context.Context, req dto.CloseReportRequest, id string) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, "resolved", model.StatusResolved,
		[]string{model.StatusInProgress},
		map[string]any{model.FieldResolutionNotes: req.Notes},
	)
}

func (s *serviceImpl) Reject(ctx context.Context, req dto.CloseReportRequest, id string) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, "rejected", model.StatusRejected,
		[]string{model.StatusPending, model.StatusInProgress},
		map[string]any{model.FieldResolutionNotes: req.Notes},
	)
}

// transition moves a report to status when it is currently in one of from.
func (s *serviceImpl) transition(ctx context.Context, id, action, status string, from []string, fields map[string]any) (res dto.ReportResponse, err error) {
	user, role := shared.Actor(ctx)
	if !shared.IsAdmin(role) {
		return res, failure.ForbiddenError
	}

	report, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if report.Closed() {
		return res, failure.Conflict(fmt.Sprintf(errReportClosed, report.Status))
	}

	if !slices.Contains(from, report.Status) {
		return res, failure.Conflict(fmt.Sprintf(errReportStatus, from[0], action))
	}

	now := timezone.Now()

	fields[model.FieldStatus] = status
	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	filter := shared.FilterEq(model.TableName, map[string]string{
		model.FieldID:     id,
		model.FieldStatus: report.Status,
	})

	affected, err := s.repo.UpdateAffected(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update report")

		return res, fmt.Errorf("failed to update report: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict(errReportChanged)
	}

	if assignee, ok := fields[model.FieldAssignee].(string); ok {
		report.Assignee = assignee
	}

	if notes, ok := fields[model.FieldResolutionNotes].(string); ok {
		report.ResolutionNotes = notes
	}

	log.Info().Str("report", id).Str("from", report.Status).Str("to", status).Str("actor", user).Msg("report status changed")

	report.Status = status
	report.ModifiedAt = now
	report.ModifiedBy = user

	res.FromModel(report)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Report, error) {
	report, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get report")

		return report, fmt.Errorf("failed to get report: %w", err)
	}

	if !report.Exists() {
		return report, failure.NotFound(errReportNotFound)
	}

	return report, nil
}
