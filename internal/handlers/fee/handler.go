package fee

import (
	"estatehub/infras/otel"
	"estatehub/internal/domains/fee/model"
	"estatehub/internal/domains/fee/model/dto"
	"estatehub/internal/domains/fee/service"
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
	service service.Fee
	otel    otel.Otel
}

func New(service service.Fee, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.GenerateFee)
	router.Get("/", handler.GetFees)
	router.Post("/mark-overdue", handler.MarkOverdueFees)
	router.Put("/pay/{id}", handler.PayFee)
	router.Get("/{id}", handler.GetFeeByID)
}

// GenerateFee
// @Summary Issue a management fee for a unit and period
// @Tags Fee
// @Accept json
// @Produce json
// @Param request body dto.GenerateFeeRequest true "Generate Fee Request"
// @Success 201 {object} response.Data[dto.FeeResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Fees [post]
// @Security BearerAuth
func (handler *Handler) GenerateFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateFee")
	defer scope.End()

	req := dto.GenerateFeeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Generate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate fee")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetFees lists fees. Residents only receive their own.
// @Summary List fees
// @Tags Fee
// @Produce json
// @Param block query string false "Block"
// @Param floor query string false "Floor"
// @Param unit query string false "Unit"
// @Param period query string false "yyyy-MM"
// @Param status query string false "pending, paid or overdue"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetFeesResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Fees [get]
// @Security BearerAuth
func (handler *Handler) GetFees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFees")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	period := query.Get("period")
	if period != constant.Empty {
		if err := validator.ValidateVar(period, "period"); err != nil {
			response.WithError(w, err)

			return
		}
	}

	filterGroup := shared.FilterEq(model.TableName, map[string]string{
		model.FieldBlock:      query.Get("block"),
		model.FieldFloor:      query.Get("floor"),
		model.FieldUnit:       query.Get("unit"),
		model.FieldPeriod:     period,
		model.FieldStatus:     query.Get("status"),
		model.FieldResidentID: query.Get("residentId"),
	})

	fees, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get fees")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, fees)
}

// GetFeeByID
// @Summary Get a fee
// @Tags Fee
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Data[dto.FeeResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Fees/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetFeeByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFeeByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	fee, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get fee by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, fee)
}

// PayFee
// @Summary Pay a pending or overdue fee
// @Tags Fee
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param request body dto.PayFeeRequest true "Pay Fee Request"
// @Success 200 {object} response.Data[dto.FeeResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Fees/pay/{id} [put]
// @Security BearerAuth
func (handler *Handler) PayFee(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PayFee")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.PayFeeRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	fee, err := handler.service.Pay(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to pay fee")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Fee " + id + " paid by user " + user)

	response.WithJSON(w, http.StatusOK, fee)
}

// MarkOverdueFees
// @Summary Flag pending fees past their due date as overdue
// @Tags Fee
// @Produce json
// @Success 200 {object} response.Data[dto.MarkOverdueResponse]
// @Failure 500 {object} response.Error
// @Router /api/Fees/mark-overdue [post]
// @Security BearerAuth
func (handler *Handler) MarkOverdueFees(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkOverdueFees")
	defer scope.End()

	res, err := handler.service.MarkOverdue(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark overdue fees")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
