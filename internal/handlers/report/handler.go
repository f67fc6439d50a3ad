package report

import (
	"context"
	"estatehub/infras/otel"
	"estatehub/internal/domains/report/model"
	"estatehub/internal/domains/report/model/dto"
	"estatehub/internal/domains/report/service"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/validator"
	"estatehub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.SubmitReport)
	router.Get("/", handler.GetReports)
	router.Put("/assign/{id}", handler.AssignReport)
	router.Put("/resolve/{id}", handler.ResolveReport)
	router.Put("/reject/{id}", handler.RejectReport)
	router.Get("/{id}", handler.GetReportByID)
}

// SubmitReport files a complaint or maintenance request for the caller.
// @Summary Submit a report
// @Tags Report
// @Accept json
// @Produce json
// @Param request body dto.SubmitReportRequest true "Submit Report Request"
// @Success 201 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Reports [post]
// @Security BearerAuth
func (handler *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitReport")
	defer scope.End()

	req := dto.SubmitReportRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit report")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Report submitted by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReports
// @Summary List reports
// @Tags Report
// @Produce json
// @Param status query string false "pending, in-progress, resolved or rejected"
// @Param priority query string false "low, medium, high or urgent"
// @Param category query string false "Category"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetReportsResponse]
// @Failure 500 {object} response.Error
// @Router /api/Reports [get]
// @Security BearerAuth
func (handler *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReports")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := shared.FilterEq(model.TableName, map[string]string{
		model.FieldStatus:   query.Get("status"),
		model.FieldPriority: query.Get("priority"),
		model.FieldCategory: query.Get("category"),
	})

	reports, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reports")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reports)
}

// GetReportByID
// @Summary Get a report
// @Tags Report
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Reports/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReportByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReportByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	report, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get report by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

// AssignReport
// @Summary Assign a report and mark it in progress
// @Tags Report
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param request body dto.AssignReportRequest true "Assign Report Request"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Reports/assign/{id} [put]
// @Security BearerAuth
func (handler *Handler) AssignReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignReport")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignReportRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	report, err := handler.service.Assign(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to assign report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}

// ResolveReport
// @Summary Resolve an in-progress report
// @Tags Report
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param request body dto.CloseReportRequest true "Resolution Notes"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Reports/resolve/{id} [put]
// @Security BearerAuth
func (handler *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	handler.close(w, r, ".ResolveReport", handler.service.Resolve)
}

// RejectReport
// @Summary Reject a report
// @Tags Report
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param request body dto.CloseReportRequest true "Rejection Notes"
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Reports/reject/{id} [put]
// @Security BearerAuth
func (handler *Handler) RejectReport(w http.ResponseWriter, r *http.Request) {
	handler.close(w, r, ".RejectReport", handler.service.Reject)
}

type closeFunc func(ctx context.Context, req dto.CloseReportRequest, id string) (dto.ReportResponse, error)

func (handler *Handler) close(w http.ResponseWriter, r *http.Request, scopeName string, fn closeFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+scopeName)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CloseReportRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	report, err := fn(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to close report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, report)
}
