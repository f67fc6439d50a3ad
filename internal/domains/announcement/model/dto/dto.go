package dto

import (
	"estatehub/internal/domains/announcement/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateAnnouncementRequest struct {
	Title         string `json:"title"         validate:"required,max=150"`
	Message       string `json:"message"       validate:"required,max=5000"`
	Type          string `json:"type"          validate:"required,oneof=general maintenance event emergency"`
	Audience      string `json:"audience"      validate:"omitempty,oneof=all residents admins"`
	ScheduledDate string `json:"scheduledDate" validate:"omitempty,calendar"`
}

// ToModel sends the announcement right away when scheduled is not after today.
func (c *CreateAnnouncementRequest) ToModel(scheduled time.Time, user string) model.Announcement {
	audience := c.Audience
	if audience == "" {
		audience = model.AudienceAll
	}

	now := timezone.Now()

	announcement := model.Announcement{
		ID:            uuid.NewString(),
		Title:         c.Title,
		Message:       c.Message,
		Type:          c.Type,
		Audience:      audience,
		ScheduledDate: scheduled,
		Status:        model.StatusScheduled,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if announcement.Due(timezone.Date(now)) {
		announcement.Status = model.StatusSent
		announcement.SentAt = &now
	}

	return announcement
}

type AnnouncementResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	Audience      string `json:"audience"`
	ScheduledDate string `json:"scheduledDate"`
	SentAt        string `json:"sentAt,omitempty"`
	Status        string `json:"status"`
	gDto.Metadata
}

func (r *AnnouncementResponse) FromModel(model model.Announcement, today time.Time) {
	r.ID = model.ID
	r.Title = model.Title
	r.Message = model.Message
	r.Type = model.Type
	r.Audience = model.Audience
	r.ScheduledDate = timezone.FormatDate(model.ScheduledDate)
	r.Status = model.EffectiveStatus(today)

	if model.SentAt != nil {
		r.SentAt = timezone.Format(*model.SentAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetAnnouncementsResponse struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	TotalPage     int                    `json:"totalPage"`
	TotalData     int                    `json:"totalData"`
}

func (r *GetAnnouncementsResponse) FromModels(models []model.Announcement, today time.Time, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Announcements = make([]AnnouncementResponse, len(models))
	for i, mod := range models {
		r.Announcements[i].FromModel(mod, today)
	}
}

type FeedItemResponse struct {
	AnnouncementResponse
	Read bool `json:"read"`
}

type GetFeedResponse struct {
	Announcements []FeedItemResponse `json:"announcements"`
	TotalPage     int                `json:"totalPage"`
	TotalData     int                `json:"totalData"`
}

func (r *GetFeedResponse) FromModels(items []model.FeedItem, today time.Time, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Announcements = make([]FeedItemResponse, len(items))
	for i, item := range items {
		r.Announcements[i].FromModel(item.Announcement, today)
		r.Announcements[i].Read = item.ReadAt != nil
	}
}
