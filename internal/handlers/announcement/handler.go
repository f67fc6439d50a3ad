package announcement

import (
	"estatehub/infras/otel"
	"estatehub/internal/domains/announcement/model"
	"estatehub/internal/domains/announcement/model/dto"
	"estatehub/internal/domains/announcement/service"
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
	service service.Announcement
	otel    otel.Otel
}

func New(service service.Announcement, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/", handler.CreateAnnouncement)
	router.Get("/", handler.GetAnnouncements)
	router.Get("/feed", handler.GetFeed)
	router.Put("/read/{id}", handler.MarkAnnouncementRead)
	router.Put("/dismiss/{id}", handler.DismissAnnouncement)
	router.Delete("/{id}", handler.DeleteAnnouncement)
}

// CreateAnnouncement
// @Summary Publish or schedule an announcement
// @Description Without scheduledDate, or with a date up to today, the announcement is sent immediately.
// @Tags Announcement
// @Accept json
// @Produce json
// @Param request body dto.CreateAnnouncementRequest true "Create Announcement Request"
// @Success 201 {object} response.Data[dto.AnnouncementResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Announcements [post]
// @Security BearerAuth
func (handler *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAnnouncement")
	defer scope.End()

	req := dto.CreateAnnouncementRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create announcement")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Announcement created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAnnouncements
// @Summary List all announcements
// @Tags Announcement
// @Produce json
// @Param type query string false "general, maintenance, event or emergency"
// @Param audience query string false "all, residents or admins"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetAnnouncementsResponse]
// @Failure 500 {object} response.Error
// @Router /api/Announcements [get]
// @Security BearerAuth
func (handler *Handler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAnnouncements")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := shared.FilterEq(model.TableName, map[string]string{
		model.FieldType:     query.Get("type"),
		model.FieldAudience: query.Get("audience"),
	})

	announcements, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get announcements")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, announcements)
}

// GetFeed
// @Summary Announcements for the caller
// @Tags Announcement
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetFeedResponse]
// @Failure 500 {object} response.Error
// @Router /api/Announcements/feed [get]
// @Security BearerAuth
func (handler *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFeed")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	feed, err := handler.service.Feed(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get announcement feed")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, feed)
}

// MarkAnnouncementRead
// @Summary Mark an announcement read
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Announcements/read/{id} [put]
// @Security BearerAuth
func (handler *Handler) MarkAnnouncementRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAnnouncementRead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.MarkRead(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to mark announcement read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Announcement marked as read")
}

// DismissAnnouncement
// @Summary Hide an announcement from the caller's feed
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Announcements/dismiss/{id} [put]
// @Security BearerAuth
func (handler *Handler) DismissAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DismissAnnouncement")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Dismiss(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to dismiss announcement")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Announcement dismissed")
}

// DeleteAnnouncement
// @Summary Delete an announcement
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/Announcements/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAnnouncement")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete announcement")

		response.WithError(w, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Announcement " + id + " deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Announcement deleted successfully")
}
