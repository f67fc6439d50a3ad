package blockeddate

import (
	"estatehub/infras/otel"
	"estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/blockeddate/model/dto"
	"estatehub/internal/domains/blockeddate/service"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/validator"
	"estatehub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryFacilityName = "facilityName"
	queryDate         = "date"
)

type Handler struct {
	service service.BlockedDate
	otel    otel.Otel
}

func New(service service.BlockedDate, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/block-date", handler.BlockDate)
	router.Delete("/unblock-date/{id}", handler.UnblockDate)
	router.Get("/blocked-dates", handler.GetBlockedDates)
}

// BlockDate
// @Summary Block a facility for a whole day
// @Tags BlockedDate
// @Accept json
// @Produce json
// @Param request body dto.BlockDateRequest true "Block Date Request"
// @Success 201 {object} response.Data[dto.BlockedDateResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/block-date [post]
// @Security BearerAuth
func (handler *Handler) BlockDate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlockDate")
	defer scope.End()

	req := dto.BlockDateRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Block(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to block date")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Date blocked successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// UnblockDate
// @Summary Remove a blocked date
// @Tags BlockedDate
// @Produce json
// @Param id path string true "Blocked date ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/unblock-date/{id} [delete]
// @Security BearerAuth
func (handler *Handler) UnblockDate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnblockDate")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Unblock(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to unblock date")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Date unblocked successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Date unblocked successfully")
}

// GetBlockedDates
// @Summary List blocked dates
// @Tags BlockedDate
// @Produce json
// @Param facilityName query string false "Facility name"
// @Param date query string false "yyyy-MM-dd"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetBlockedDatesResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/blocked-dates [get]
// @Security BearerAuth
func (handler *Handler) GetBlockedDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedDates")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	date := query.Get(queryDate)
	if date != constant.Empty {
		if err := validator.ValidateVar(date, "calendar"); err != nil {
			response.WithError(w, err)

			return
		}
	}

	filterGroup := shared.FilterEq(model.TableName, map[string]string{
		model.FieldBlockedDate: date,
	})

	if name := query.Get(queryFacilityName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    facilityModel.FieldName,
			ArgName:  model.FieldFacilityName,
			Operator: gDto.FilterOperatorEq,
			Value:    name,
			Table:    facilityModel.TableName,
		})
	}

	blockedDates, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked dates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, blockedDates)
}
