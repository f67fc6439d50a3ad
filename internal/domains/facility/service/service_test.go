package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"estatehub/config"
	"estatehub/infras/otel/mocks"
	facilityMocks "estatehub/internal/domains/facility/mocks"
	"estatehub/internal/domains/facility/model"
	"estatehub/internal/domains/facility/model/dto"
	"estatehub/internal/domains/facility/service"
	cacheMocks "estatehub/shared/cache/mocks"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
)

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func newService(t *testing.T) (service.Facility, *facilityMocks.MockFacility, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)

	mockRepo := facilityMocks.NewMockFacility(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestFacilityService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateFacilityRequest
		setupMock func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "successful creation defaults to available",
			req:  dto.CreateFacilityRequest{Name: "Tennis Court", Category: model.CategorySport, Capacity: 4},
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, facility model.Facility) error {
						assert.Equal(t, model.StatusAvailable, facility.Status)
						assert.Equal(t, "admin-1", facility.CreatedBy)

						return nil
					})
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "duplicate name",
			req:  dto.CreateFacilityRequest{Name: "Tennis Court", Category: model.CategorySport, Capacity: 4},
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unique violation on insert",
			req:  dto.CreateFacilityRequest{Name: "Tennis Court", Category: model.CategorySport, Capacity: 4},
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  dto.CreateFacilityRequest{Name: "Grand Hall", Category: model.CategoryEvent, Capacity: 90},
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService(t)
			tt.setupMock(repo, cache)

			res, err := svc.Create(adminContext(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, tt.req.Name, res.Name)
		})
	}
}

func TestFacilityService_GetAll(t *testing.T) {
	t.Run("cache miss loads from repository", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Facility{
			{ID: "f-1", Name: "Tennis Court", Category: model.CategorySport, Capacity: 4, Status: model.StatusAvailable},
			{ID: "f-2", Name: "Grand Hall", Category: model.CategoryEvent, Capacity: 90, Status: model.StatusMaintenance},
		}, nil)
		cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		assert.Len(t, res.Facilities, 2)
		assert.Equal(t, "Grand Hall", res.Facilities[1].Name)
	})

	t.Run("cache hit", func(t *testing.T) {
		svc, _, cache := newService(t)

		cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res := value.(*dto.GetFacilitiesResponse)
				res.TotalData = 7

				return nil
			})

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 7, res.TotalData)
	})

	t.Run("count error", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("count error"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestFacilityService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), "facility:get:f-1", gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{ID: "f-1", Name: "Tennis Court"}, nil)
				cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "not found",
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService(t)
			tt.setupMock(repo, cache)

			res, err := svc.Get(context.Background(), "f-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Tennis Court", res.Name)
		})
	}
}

func TestFacilityService_Update(t *testing.T) {
	capacity := 6

	tests := []struct {
		name      string
		req       dto.UpdateFacilityRequest
		setupMock func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "capacity only",
			req:  dto.UpdateFacilityRequest{Capacity: &capacity},
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{ID: "f-1", Name: "Tennis Court"}, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, &capacity, fields["capacity"])
						assert.NotContains(t, fields, "name")

						return nil
					})
				cache.EXPECT().Delete(gomock.Any(), "facility:get:f-1").Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "rename to a taken name",
			req:  dto.UpdateFacilityRequest{Name: "Grand Hall"},
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{ID: "f-1", Name: "Tennis Court"}, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "missing facility",
			req:  dto.UpdateFacilityRequest{Capacity: &capacity},
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService(t)
			tt.setupMock(repo, cache)

			err := svc.Update(adminContext(), tt.req, "f-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFacilityService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "successful delete",
			setupMock: func(repo *facilityMocks.MockFacility, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{ID: "f-1", Name: "Tennis Court"}, nil)
				repo.EXPECT().HasActiveBookings(gomock.Any(), "f-1").Return(false, nil)
				repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
		},
		{
			name: "active bookings block deletion",
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{ID: "f-1", Name: "Tennis Court"}, nil)
				repo.EXPECT().HasActiveBookings(gomock.Any(), "f-1").Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "missing facility",
			setupMock: func(repo *facilityMocks.MockFacility, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Facility{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService(t)
			tt.setupMock(repo, cache)

			err := svc.Delete(adminContext(), "f-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFacilityService_ToggleStatus(t *testing.T) {
	svc, repo, cache := newService(t)

	repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Facility{ID: "f-1", Name: "Tennis Court", Status: model.StatusAvailable}, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusMaintenance, fields["status"])

			return nil
		})
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.ToggleStatus(adminContext(), "f-1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, res.Status)
}
