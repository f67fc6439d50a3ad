package booking

import (
	"estatehub/infras/otel"
	"estatehub/internal/domains/booking/model"
	"estatehub/internal/domains/booking/model/dto"
	"estatehub/internal/domains/booking/service"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/timezone"
	"estatehub/shared/validator"
	"estatehub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryFacilityName = "facilityName"
	queryStatus       = "status"
	queryDate         = "date"
	queryCategory     = "category"
	queryUserID       = "userId"

	exportFilenameLayout = "bookings_20060102_150405.xlsx"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/all", handler.GetAllBookings)
	router.Get("/my", handler.GetMyBookings)
	router.Get("/availability", handler.GetAvailability)
	router.Get("/export", handler.ExportBookings)
	router.Post("/sport", handler.CreateSportBooking)
	router.Post("/event", handler.CreateEventBooking)
	router.Put("/update-status/{id}", handler.UpdateBookingStatus)
	router.Put("/cancel/{id}", handler.CancelBooking)
	router.Get("/{id}", handler.GetBookingByID)
}

// CreateSportBooking
// @Summary Book a sport facility
// @Description Books startTime for duration hours. Admins may pass userId to book for a resident.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateSportBookingRequest true "Sport Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/sport [post]
// @Security BearerAuth
func (handler *Handler) CreateSportBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSportBooking")
	defer scope.End()

	req := dto.CreateSportBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateSport(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create sport booking")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Sport booking created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// CreateEventBooking
// @Summary Book an event hall
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateEventBookingRequest true "Event Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/event [post]
// @Security BearerAuth
func (handler *Handler) CreateEventBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateEventBooking")
	defer scope.End()

	req := dto.CreateEventBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateEvent(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create event booking")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Event booking created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAllBookings lists every booking for administrators.
// @Summary List all bookings
// @Tags Booking
// @Produce json
// @Param facilityName query string false "Facility name"
// @Param status query string false "pending, approved, rejected or cancelled"
// @Param date query string false "yyyy-MM-dd"
// @Param category query string false "sport or event"
// @Param userId query string false "Requester"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/all [get]
// @Security BearerAuth
func (handler *Handler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAllBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup, err := bookingFilter(r, r.URL.Query().Get(queryUserID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings
// @Summary List the caller's bookings
// @Tags Booking
// @Produce json
// @Param status query string false "pending, approved, rejected or cancelled"
// @Param date query string false "yyyy-MM-dd"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	user, _ := shared.Actor(ctx)

	filterGroup, err := bookingFilter(r, user)
	if err != nil {
		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking through its approval workflow.
// @Summary Update a booking's status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingStatusRequest true "Status Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/update-status/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBookingStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.UpdateStatus(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update booking status")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Booking " + id + " moved to " + booking.Status + " by user " + user)

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/cancel/{id} [put]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Cancel(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetAvailability
// @Summary Show a facility's blocked flag and taken slots for a day
// @Tags Booking
// @Produce json
// @Param facilityName query string true "Facility name"
// @Param date query string true "yyyy-MM-dd"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	query := r.URL.Query()

	facilityName := query.Get(queryFacilityName)
	if err := validator.ValidateVar(facilityName, "required"); err != nil {
		response.WithError(w, err)

		return
	}

	availability, err := handler.service.Availability(ctx, facilityName, query.Get(queryDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("facility", facilityName).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}

// ExportBookings
// @Summary Export bookings as a spreadsheet
// @Tags Booking
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param facilityName query string false "Facility name"
// @Param status query string false "Status"
// @Param date query string false "yyyy-MM-dd"
// @Success 200 {file} file
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Bookings/export [get]
// @Security BearerAuth
func (handler *Handler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportBookings")
	defer scope.End()

	filterGroup, err := bookingFilter(r, r.URL.Query().Get(queryUserID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	content, err := handler.service.Export(ctx, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export bookings")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, constant.ContentTypeXLSX, timezone.Now().Format(exportFilenameLayout), content)
}

// bookingFilter reads the shared list filters. requesterID narrows to one user when set.
func bookingFilter(r *http.Request, requesterID string) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	date := query.Get(queryDate)
	if date != constant.Empty {
		if err := validator.ValidateVar(date, "calendar"); err != nil {
			return gDto.FilterGroup{}, err
		}
	}

	return shared.FilterEq(model.TableName, map[string]string{
		model.FieldFacilityName: query.Get(queryFacilityName),
		model.FieldStatus:       query.Get(queryStatus),
		model.FieldBookingDate:  date,
		model.FieldCategory:     query.Get(queryCategory),
		model.FieldRequesterID:  requesterID,
	}), nil
}
