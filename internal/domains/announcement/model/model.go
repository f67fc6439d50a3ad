package model

import (
	"estatehub/shared/model"
	"estatehub/shared/timezone"
	"time"
)

const (
	TableName  = "announcements"
	EntityName = "announcement"

	ReceiptTableName = "announcement_receipts"

	FieldID            = "id"
	FieldType          = "type"
	FieldAudience      = "audience"
	FieldScheduledDate = "scheduled_date"
	FieldStatus        = "status"
)

const (
	StatusScheduled = "scheduled"
	StatusSent      = "sent"
)

const (
	AudienceAll       = "all"
	AudienceResidents = "residents"
	AudienceAdmins    = "admins"
)

type Announcement struct {
	ID            string     `db:"id"`
	Title         string     `db:"title"`
	Message       string     `db:"message"`
	Type          string     `db:"type"`
	Audience      string     `db:"audience"`
	ScheduledDate time.Time  `db:"scheduled_date"`
	SentAt        *time.Time `db:"sent_at"`
	Status        string     `db:"status"`
	model.Metadata
}

func (a Announcement) Exists() bool {
	return a.ID != ""
}

// Due reports whether the announcement is visible on today. Days are compared
// as calendar strings since DATE columns come back at UTC midnight.
func (a Announcement) Due(today time.Time) bool {
	return timezone.FormatDate(a.ScheduledDate) <= timezone.FormatDate(today)
}

// EffectiveStatus is sent once the scheduled date has arrived, whatever is stored.
func (a Announcement) EffectiveStatus(today time.Time) string {
	if a.Due(today) {
		return StatusSent
	}

	return StatusScheduled
}

// FeedItem is an announcement joined with the caller's receipt.
type FeedItem struct {
	Announcement
	ReadAt *time.Time `db:"read_at"`
}

// Audiences lists the audiences a role receives.
func Audiences(admin bool) []string {
	if admin {
		return []string{AudienceAll, AudienceAdmins}
	}

	return []string{AudienceAll, AudienceResidents}
}
