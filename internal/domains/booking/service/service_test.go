package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"estatehub/config"
	"estatehub/infras/otel/mocks"
	blockedModel "estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/booking/availability"
	bookingMocks "estatehub/internal/domains/booking/mocks"
	"estatehub/internal/domains/booking/model"
	"estatehub/internal/domains/booking/model/dto"
	"estatehub/internal/domains/booking/repository"
	"estatehub/internal/domains/booking/service"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
)

type fixture struct {
	svc       service.Booking
	repo      *bookingMocks.MockBooking
	publisher *bookingMocks.MockPublisher
	cfg       *config.Config
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		publisher: bookingMocks.NewMockPublisher(ctrl),
		cfg:       &config.Config{},
	}

	f.cfg.Booking.EventGuestCeiling = 90
	f.cfg.Booking.MaxSportDurationHours = 4
	f.cfg.Booking.ResidentCancelApproved = true

	f.svc = service.New(f.repo, f.publisher, f.cfg, mocks.NewOtel())

	return f
}

func asUser(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

var (
	resident = asUser("resident-7", constant.RoleResident)
	admin    = asUser("admin-1", constant.RoleAdmin)

	tennis = facilityModel.Facility{
		ID: "f-tennis", Name: "Tennis Court", Category: facilityModel.CategorySport, Capacity: 4, Status: facilityModel.StatusAvailable,
	}
	hall = facilityModel.Facility{
		ID: "f-hall", Name: "Main Hall", Category: facilityModel.CategoryEvent, Capacity: 120, Status: facilityModel.StatusAvailable,
	}
)

// tomorrow keeps the requests clear of the past-slot rule whenever the test runs.
func tomorrow() string {
	return timezone.FormatDate(timezone.Date(timezone.Now()).AddDate(0, 0, 1))
}

// withSnapshot feeds snap to the decide callback the way the transaction would.
func withSnapshot(snap availability.Snapshot) func(context.Context, repository.Criteria, repository.Decide) (model.Booking, error) {
	return func(_ context.Context, _ repository.Criteria, decide repository.Decide) (model.Booking, error) {
		return decide(snap)
	}
}

func TestBookingService_CreateSport(t *testing.T) {
	date := tomorrow()
	day, _ := timezone.ParseDate(date)

	existing := model.Booking{ID: "b-existing", BookingDate: day, StartMinute: 600, EndMinute: 660, Status: model.StatusApproved}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateSportBookingRequest
		setupMock func(f *fixture)
		wantCode  int
		wantUser  string
	}{
		{
			name: "free slot is stored as pending",
			ctx:  resident,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "11:00", Duration: 1, Guests: 2},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateChecked(gomock.Any(), repository.Criteria{FacilityName: "Tennis Court", Date: day}, gomock.Any()).
					DoAndReturn(withSnapshot(availability.Snapshot{Facility: tennis, Bookings: []model.Booking{existing}}))
				f.publisher.EXPECT().Created(gomock.Any(), gomock.Any(), "resident-7").Return(nil).AnyTimes()
			},
			wantUser: "resident-7",
		},
		{
			name: "overlapping slot conflicts",
			ctx:  resident,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "10:00", Duration: 1, Guests: 2},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(withSnapshot(availability.Snapshot{Facility: tennis, Bookings: []model.Booking{existing}}))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "blocked day is rejected",
			ctx:  resident,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "15:00", Duration: 1, Guests: 1},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(withSnapshot(availability.Snapshot{
						Facility: tennis,
						Blocks:   []blockedModel.BlockedDate{{FacilityID: "f-tennis", BlockedDate: day, Reason: "Resurfacing"}},
					}))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "admin books on behalf of a resident",
			ctx:  admin,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "12:00", Duration: 2, Guests: 4, UserID: "resident-9"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(withSnapshot(availability.Snapshot{Facility: tennis}))
				f.publisher.EXPECT().Created(gomock.Any(), gomock.Any(), "admin-1").Return(nil).AnyTimes()
			},
			wantUser: "resident-9",
		},
		{
			name: "resident cannot book for someone else",
			ctx:  resident,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "12:00", Duration: 1, Guests: 2, UserID: "resident-9"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(withSnapshot(availability.Snapshot{Facility: tennis}))
				f.publisher.EXPECT().Created(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down")).AnyTimes()
			},
			wantUser: "resident-7",
		},
		{
			name:      "malformed date",
			ctx:       resident,
			req:       dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: "01-11-2025", StartTime: "11:00", Duration: 1, Guests: 2},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "database failure",
			ctx:  resident,
			req:  dto.CreateSportBookingRequest{SportName: "Tennis Court", Date: date, StartTime: "11:00", Duration: 1, Guests: 2},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CreateSport(tt.ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, tt.wantUser, res.UserID)
			assert.Equal(t, "Tennis Court", res.FacilityName)
			assert.Equal(t, date, res.Date)
			assert.Equal(t, tt.req.StartTime, res.StartTime)
		})
	}
}

func TestBookingService_CreateEvent(t *testing.T) {
	date := tomorrow()

	t.Run("guest ceiling is checked before any lookup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateEvent(resident, dto.CreateEventBookingRequest{
			HallName: "Main Hall", EventType: "Wedding", Date: date, StartTime: "10:00", EndTime: "14:00", Guests: 95,
		})

		assert.EqualError(t, err, "event hall bookings are limited to 90 guests")
	})

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(withSnapshot(availability.Snapshot{Facility: hall}))

		_, err := f.svc.CreateEvent(resident, dto.CreateEventBookingRequest{
			HallName: "Main Hall", EventType: "Wedding", Date: date, StartTime: "14:00", EndTime: "10:00", Guests: 40,
		})

		assert.EqualError(t, err, "end time must be later than start time")
	})

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			CreateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(withSnapshot(availability.Snapshot{Facility: hall}))
		f.publisher.EXPECT().Created(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.CreateEvent(resident, dto.CreateEventBookingRequest{
			HallName: "Main Hall", EventType: "Wedding", Date: date, StartTime: "10:00", EndTime: "14:00", Guests: 40, Description: "Reception",
		})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "14:00", res.EndTime)
		assert.Equal(t, "Wedding", res.EventType)
		assert.Equal(t, "Reception", res.Description)
		assert.Equal(t, "f-hall", res.FacilityID)
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	pending := model.Booking{ID: "b-1", RequesterID: "resident-7", Status: model.StatusPending}
	approved := model.Booking{ID: "b-1", RequesterID: "resident-7", Status: model.StatusApproved}
	cancelled := model.Booking{ID: "b-1", RequesterID: "resident-7", Status: model.StatusCancelled}

	tests := []struct {
		name      string
		ctx       context.Context
		status    string
		policy    bool
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name:   "admin approves",
			ctx:    admin,
			status: model.StatusApproved,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.repo.EXPECT().TransitionStatus(gomock.Any(), "b-1", model.StatusPending, model.StatusApproved, "admin-1").Return(nil)
				f.publisher.EXPECT().StatusChanged(gomock.Any(), gomock.Any(), model.StatusPending, "admin-1").Return(nil).AnyTimes()
			},
		},
		{
			name:   "unknown booking",
			ctx:    admin,
			status: model.StatusApproved,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "terminal booking",
			ctx:    admin,
			status: model.StatusApproved,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "owner cannot approve",
			ctx:    resident,
			status: model.StatusApproved,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "another resident is turned away",
			ctx:    asUser("resident-9", constant.RoleResident),
			status: model.StatusCancelled,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "unknown status",
			ctx:    admin,
			status: "archived",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "concurrent change",
			ctx:    admin,
			status: model.StatusRejected,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.repo.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failure.Conflict("booking was changed by someone else, reload and try again"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "owner cancels approved when allowed",
			ctx:    resident,
			status: model.StatusCancelled,
			policy: true,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				f.repo.EXPECT().TransitionStatus(gomock.Any(), "b-1", model.StatusApproved, model.StatusCancelled, "resident-7").Return(nil)
				f.publisher.EXPECT().StatusChanged(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name:   "owner cannot cancel approved when disallowed",
			ctx:    resident,
			status: model.StatusCancelled,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.Booking.ResidentCancelApproved = tt.policy
			tt.setupMock(f)

			res, err := f.svc.UpdateStatus(tt.ctx, dto.UpdateBookingStatusRequest{Status: tt.status}, "b-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b-1", RequesterID: "resident-7", Status: model.StatusPending}, nil)
	f.repo.EXPECT().TransitionStatus(gomock.Any(), "b-1", model.StatusPending, model.StatusCancelled, "resident-7").Return(nil)
	f.publisher.EXPECT().StatusChanged(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := f.svc.Cancel(resident, "b-1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{ID: "b-1", RequesterID: "resident-7", Status: model.StatusPending}

	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := f.svc.Get(resident, "b-1")

		assert.NoError(t, err)
		assert.Equal(t, "b-1", res.ID)
	})

	t.Run("admin", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Get(admin, "b-1")

		assert.NoError(t, err)
	})

	t.Run("other resident", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Get(asUser("resident-9", constant.RoleResident), "b-1")

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestBookingService_Availability(t *testing.T) {
	day := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	t.Run("blocked day with occupied slots", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Snapshot(gomock.Any(), "Main Hall", gomock.Any()).Return(availability.Snapshot{
			Facility: hall,
			Blocks:   []blockedModel.BlockedDate{{BlockedDate: day, Reason: "Closed"}},
			Bookings: []model.Booking{
				{ID: "b-1", BookingDate: day, StartMinute: 600, EndMinute: 720, Status: model.StatusApproved},
			},
		}, nil)

		res, err := f.svc.Availability(resident, "Main Hall", "2025-12-25")

		assert.NoError(t, err)
		assert.True(t, res.Blocked)
		assert.Equal(t, "Closed", res.BlockReason)
		assert.Equal(t, []dto.Slot{{BookingID: "b-1", StartTime: "10:00", EndTime: "12:00", Status: model.StatusApproved}}, res.Occupied)
	})

	t.Run("unknown facility", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Snapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(availability.Snapshot{}, nil)

		_, err := f.svc.Availability(resident, "Nowhere", "2025-12-25")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Availability(resident, "Main Hall", "tomorrow")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_GetAllAndExport(t *testing.T) {
	f := newFixture(t)

	bookings := []model.Booking{
		{ID: "b-1", FacilityName: "Tennis Court", Status: model.StatusPending},
		{ID: "b-2", FacilityName: "Main Hall", Status: model.StatusApproved},
	}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookings, nil).Times(2)

	res, err := f.svc.GetAll(admin, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Bookings, 2)

	content, err := f.svc.Export(admin, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.NotEmpty(t, content)
}
