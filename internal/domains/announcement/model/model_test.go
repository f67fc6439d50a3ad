package model_test

import (
	"estatehub/internal/domains/announcement/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncement_Due(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	today := time.Date(2025, 11, 20, 0, 0, 0, 0, jakarta)

	tests := []struct {
		name      string
		scheduled time.Time
		due       bool
	}{
		{name: "yesterday", scheduled: time.Date(2025, 11, 19, 0, 0, 0, 0, time.UTC), due: true},
		{name: "today read back from a DATE column", scheduled: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), due: true},
		{name: "tomorrow", scheduled: time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC), due: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			announcement := model.Announcement{ScheduledDate: tt.scheduled, Status: model.StatusScheduled}

			assert.Equal(t, tt.due, announcement.Due(today))

			if tt.due {
				assert.Equal(t, model.StatusSent, announcement.EffectiveStatus(today))
			} else {
				assert.Equal(t, model.StatusScheduled, announcement.EffectiveStatus(today))
			}
		})
	}
}

func TestAudiences(t *testing.T) {
	assert.Equal(t, []string{model.AudienceAll, model.AudienceAdmins}, model.Audiences(true))
	assert.Equal(t, []string{model.AudienceAll, model.AudienceResidents}, model.Audiences(false))
}
