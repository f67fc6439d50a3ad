package service

import (
	"context"
	"estatehub/config"
	"estatehub/infras/otel"
	"estatehub/internal/domains/booking/availability"
	"estatehub/internal/domains/booking/event"
	"estatehub/internal/domains/booking/exporter"
	"estatehub/internal/domains/booking/lifecycle"
	"estatehub/internal/domains/booking/model"
	"estatehub/internal/domains/booking/model/dto"
	"estatehub/internal/domains/booking/repository"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	errBookingNotFound  = "booking not found"
	errFacilityNotFound = "facility not found"
	errInvalidDate      = "date must use the yyyy-MM-dd format"
)

type Booking interface {
	CreateSport(ctx context.Context, req dto.CreateSportBookingRequest) (dto.BookingResponse, error)
	CreateEvent(ctx context.Context, req dto.CreateEventBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Availability(ctx context.Context, facilityName, date string) (dto.AvailabilityResponse, error)
	Export(ctx context.Context, filter gDto.FilterGroup) ([]byte, error)
}

type serviceImpl struct {
	repo      repository.Booking
	publisher event.Publisher
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Booking, publisher event.Publisher, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) CreateSport(ctx context.Context, req dto.CreateSportBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateSport")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	request, err := req.ToAvailabilityRequest()
	if err != nil {
		return res, err
	}

	return s.create(ctx, request, req.SportName, req.UserID, constant.Empty, constant.Empty)
}

func (s *serviceImpl) CreateEvent(ctx context.Context, req dto.CreateEventBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	request, err := req.ToAvailabilityRequest()
	if err != nil {
		return res, err
	}

	return s.create(ctx, request, req.HallName, req.UserID, req.EventType, req.Description)
}

// create runs the availability rules against a locked snapshot and stores the booking as pending.
func (s *serviceImpl) create(ctx context.Context, req availability.Request, facilityName, onBehalfOf, eventType, description string) (res dto.BookingResponse, err error) {
	user, role := shared.Actor(ctx)
	policy := s.availabilityPolicy()

	if err = availability.CheckCeiling(req, policy); err != nil {
		return res, err
	}

	requester := user
	if onBehalfOf != constant.Empty && shared.IsAdmin(role) {
		requester = onBehalfOf
	}

	now := timezone.Now()

	booking, err := s.repo.CreateChecked(ctx, repository.Criteria{FacilityName: facilityName, Date: req.Date},
		func(snap availability.Snapshot) (model.Booking, error) {
			if err := availability.Check(req, snap, now, policy); err != nil {
				return model.Booking{}, err
			}

			return dto.NewBooking(req, snap.Facility, requester, eventType, description, user), nil
		})
	if err != nil {
		if failure.GetCode(err) != http.StatusInternalServerError {
			return res, err
		}

		log.Error().Err(err).Str("facility", facilityName).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	log.Info().
		Str("booking", booking.ID).
		Str("facility", booking.FacilityName).
		Str("date", timezone.FormatDate(booking.BookingDate)).
		Str("requester", requester).
		Msg("booking created")

	go func() {
		if err := s.publisher.Created(context.WithoutCancel(ctx), booking, user); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to publish booking created event")
		}
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Get is limited to the booking's requester and admins.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if actor := s.actor(ctx, booking); !actor.Admin && !actor.Owner {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, req.Status)
}

// Cancel is the resident shortcut for moving a booking to cancelled.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusCancelled)
}

func (s *serviceImpl) transition(ctx context.Context, id, to string) (res dto.BookingResponse, err error) {
	user, _ := shared.Actor(ctx)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	actor := s.actor(ctx, booking)
	if !actor.Admin && !actor.Owner {
		return res, failure.ResourceRestrictedError
	}

	if err = lifecycle.CanTransition(booking.Status, to, actor, s.lifecyclePolicy()); err != nil {
		return res, err
	}

	from := booking.Status

	if err = s.repo.TransitionStatus(ctx, id, from, to, user); err != nil {
		if failure.IsCode(err, http.StatusConflict) {
			return res, err
		}

		log.Error().Err(err).Str("id", id).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = to
	booking.ModifiedBy = user
	booking.ModifiedAt = timezone.Now()

	log.Info().Str("booking", id).Str("from", from).Str("to", to).Str("actor", user).Msg("booking status changed")

	go func() {
		if err := s.publisher.StatusChanged(context.WithoutCancel(ctx), booking, from, user); err != nil {
			log.Error().Err(err).Str("booking", id).Msg("failed to publish booking status event")
		}
	}()

	res.FromModel(booking)

	return res, nil
}

// Availability shows whether a facility is blocked on date and which slots are taken.
func (s *serviceImpl) Availability(ctx context.Context, facilityName, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := timezone.ParseDate(date)
	if err != nil {
		return res, failure.BadRequestFromString(errInvalidDate)
	}

	snap, err := s.repo.Snapshot(ctx, facilityName, day)
	if err != nil {
		log.Error().Err(err).Str("facility", facilityName).Msg("failed to read availability")

		return res, fmt.Errorf("failed to read availability: %w", err)
	}

	if !snap.Facility.Exists() {
		return res, failure.NotFound(errFacilityNotFound)
	}

	res.FromSnapshot(snap, day)

	return res, nil
}

func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldBookingDate, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return nil, fmt.Errorf("failed to export bookings: %w", err)
	}

	bookings := dto.GetBookingsResponse{}
	bookings.FromModels(models, len(models), 0)

	res, err = exporter.XLSX(bookings.Bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to render bookings workbook")

		return nil, fmt.Errorf("failed to export bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if !booking.Exists() {
		return booking, failure.NotFound(errBookingNotFound)
	}

	return booking, nil
}

func (s *serviceImpl) actor(ctx context.Context, booking model.Booking) lifecycle.Actor {
	user, role := shared.Actor(ctx)

	return lifecycle.Actor{
		Admin: shared.IsAdmin(role),
		Owner: booking.OwnedBy(user),
	}
}

func (s *serviceImpl) availabilityPolicy() availability.Policy {
	return availability.Policy{
		EventGuestCeiling:     s.cfg.Booking.EventGuestCeiling,
		MaxSportDurationHours: s.cfg.Booking.MaxSportDurationHours,
	}
}

func (s *serviceImpl) lifecyclePolicy() lifecycle.Policy {
	return lifecycle.Policy{ResidentCancelApproved: s.cfg.Booking.ResidentCancelApproved}
}
