package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"estatehub/config"
	"estatehub/infras/otel/mocks"
	announcementMocks "estatehub/internal/domains/announcement/mocks"
	"estatehub/internal/domains/announcement/model"
	"estatehub/internal/domains/announcement/model/dto"
	"estatehub/internal/domains/announcement/repository"
	"estatehub/internal/domains/announcement/service"
	cacheMocks "estatehub/shared/cache/mocks"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
)

type fixture struct {
	svc   service.Announcement
	repo  *announcementMocks.MockAnnouncement
	cache *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  announcementMocks.NewMockAnnouncement(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 600

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel())

	return f
}

func contextAs(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func day(offset int) time.Time {
	return timezone.Date(timezone.Now()).AddDate(0, 0, offset)
}

func TestAnnouncementService_Create(t *testing.T) {
	tests := []struct {
		name       string
		scheduled  string
		wantStatus string
		wantSent   bool
		wantCode   int
	}{
		{name: "no date sends now", wantStatus: model.StatusSent, wantSent: true},
		{name: "today sends now", scheduled: timezone.FormatDate(day(0)), wantStatus: model.StatusSent, wantSent: true},
		{name: "future date is scheduled", scheduled: timezone.FormatDate(day(3)), wantStatus: model.StatusScheduled},
		{name: "malformed date", scheduled: "next week", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantCode == 0 {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, announcement model.Announcement) error {
						assert.Equal(t, tt.wantStatus, announcement.Status)
						assert.Equal(t, tt.wantSent, announcement.SentAt != nil)
						assert.Equal(t, model.AudienceAll, announcement.Audience)

						return nil
					})
				f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			}

			res, err := f.svc.Create(contextAs("admin-1", constant.RoleAdmin), dto.CreateAnnouncementRequest{
				Title:         "Water outage",
				Message:       "Tower B water supply is off from 09:00 to 12:00",
				Type:          "maintenance",
				ScheduledDate: tt.scheduled,
			})

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestAnnouncementService_GetAll(t *testing.T) {
	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.GetAnnouncementsResponse)
				res.TotalData = 4

				return nil
			})

		res, err := f.svc.GetAll(contextAs("admin-1", constant.RoleAdmin), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		require.NoError(t, err)
		assert.Equal(t, 4, res.TotalData)
	})

	t.Run("cache miss reads and saves", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Announcement{
			{ID: "a-1", ScheduledDate: day(5), Status: model.StatusScheduled},
		}, nil)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 600).Return(nil).Times(2)

		res, err := f.svc.GetAll(contextAs("admin-1", constant.RoleAdmin), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, model.StatusScheduled, res.Announcements[0].Status)
	})
}

func TestAnnouncementService_Delete(t *testing.T) {
	t.Run("deletes and invalidates", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{ID: "a-1"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "announcement:gets*").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "announcement:count*").Return(nil)

		err := f.svc.Delete(contextAs("admin-1", constant.RoleAdmin), "a-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Announcement{}, nil)

		err := f.svc.Delete(contextAs("admin-1", constant.RoleAdmin), "a-1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAnnouncementService_Feed(t *testing.T) {
	f := newFixture(t)
	readAt := timezone.Now()

	var captured repository.FeedQuery

	f.repo.EXPECT().
		CountFeed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query repository.FeedQuery) (int, error) {
			captured = query

			return 2, nil
		})
	f.repo.EXPECT().Feed(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.FeedItem{
		{Announcement: model.Announcement{ID: "a-1", ScheduledDate: day(0)}, ReadAt: &readAt},
		{Announcement: model.Announcement{ID: "a-2", ScheduledDate: day(-1)}},
	}, nil)

	res, err := f.svc.Feed(contextAs("resident-7", constant.RoleResident), gDto.QueryParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, "resident-7", captured.UserID)
	assert.Equal(t, []string{model.AudienceAll, model.AudienceResidents}, captured.Audiences)
	assert.Equal(t, timezone.FormatDate(day(0)), timezone.FormatDate(captured.Today))
	assert.True(t, res.Announcements[0].Read)
	assert.False(t, res.Announcements[1].Read)
	assert.Equal(t, model.StatusSent, res.Announcements[1].Status)
}

func TestAnnouncementService_Receipts(t *testing.T) {
	tests := []struct {
		name     string
		found    model.Announcement
		dismiss  bool
		wantCode int
	}{
		{name: "mark read", found: model.Announcement{ID: "a-1", Audience: model.AudienceAll, ScheduledDate: day(0)}},
		{name: "dismiss", found: model.Announcement{ID: "a-1", Audience: model.AudienceResidents, ScheduledDate: day(-2)}, dismiss: true},
		{name: "future announcement is hidden", found: model.Announcement{ID: "a-1", Audience: model.AudienceAll, ScheduledDate: day(1)}, wantCode: http.StatusNotFound},
		{name: "other audience is hidden", found: model.Announcement{ID: "a-1", Audience: model.AudienceAdmins, ScheduledDate: day(0)}, dismiss: true, wantCode: http.StatusNotFound},
		{name: "missing", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := contextAs("resident-7", constant.RoleResident)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			var err error

			if tt.dismiss {
				if tt.wantCode == 0 {
					f.repo.EXPECT().Dismiss(gomock.Any(), "a-1", "resident-7", gomock.Any()).Return(nil)
				}

				err = f.svc.Dismiss(ctx, "a-1")
			} else {
				if tt.wantCode == 0 {
					f.repo.EXPECT().MarkRead(gomock.Any(), "a-1", "resident-7", gomock.Any()).Return(nil)
				}

				err = f.svc.MarkRead(ctx, "a-1")
			}

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
