package visitor

import (
	"estatehub/infras/otel"
	"estatehub/internal/domains/visitor/model"
	"estatehub/internal/domains/visitor/model/dto"
	"estatehub/internal/domains/visitor/service"
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
	service service.Visitor
	otel    otel.Otel
}

func New(service service.Visitor, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.CheckInVisitor)
	router.Get("/", handler.GetVisitors)
	router.Put("/checkout/{id}", handler.CheckOutVisitor)
	router.Get("/{id}", handler.GetVisitorByID)
}

// CheckInVisitor registers a visitor for the caller.
// The returned passCode is shown only once.
// @Summary Check in a visitor
// @Tags Visitor
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Check In Request"
// @Success 201 {object} response.Data[dto.VisitorPassResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Visitors [post]
// @Security BearerAuth
func (handler *Handler) CheckInVisitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckInVisitor")
	defer scope.End()

	req := dto.CheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CheckIn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in visitor")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Visitor checked in by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetVisitors
// @Summary List visitors
// @Tags Visitor
// @Produce json
// @Param status query string false "checked-in or checked-out"
// @Param name query string false "Visitor name"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetVisitorsResponse]
// @Failure 500 {object} response.Error
// @Router /api/Visitors [get]
// @Security BearerAuth
func (handler *Handler) GetVisitors(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVisitors")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := shared.FilterEq(model.TableName, map[string]string{
		model.FieldStatus: query.Get("status"),
	})

	if name := query.Get("name"); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	visitors, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get visitors")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, visitors)
}

// GetVisitorByID
// @Summary Get a visitor
// @Tags Visitor
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} response.Data[dto.VisitorResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Visitors/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetVisitorByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVisitorByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	visitor, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get visitor by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, visitor)
}

// CheckOutVisitor
// @Summary Check out a visitor
// @Description The host resident may omit passCode. Admins must present it.
// @Tags Visitor
// @Accept json
// @Produce json
// @Param id path string true "Visitor ID"
// @Param request body dto.CheckOutRequest true "Check Out Request"
// @Success 200 {object} response.Data[dto.VisitorResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Visitors/checkout/{id} [put]
// @Security BearerAuth
func (handler *Handler) CheckOutVisitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOutVisitor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CheckOutRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	visitor, err := handler.service.CheckOut(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to check out visitor")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, visitor)
}
