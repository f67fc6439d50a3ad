package shared_test

import (
	"context"
	"errors"
	"estatehub/shared"
	"estatehub/shared/cache/mocks"
	"estatehub/shared/constant"
	"estatehub/shared/dto"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "numeric false", input: "0", expected: boolPtr(false)},
		{name: "upper case", input: "TRUE", expected: boolPtr(true)},
		{name: "garbage returns nil", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Name    string `db:"name"`
		Status  string `db:"status"`
		Count   *int   `db:"count"`
		NoDBTag string
	}

	zero := 0
	result := shared.TransformFields(update{Name: "Tennis Court", Count: &zero, NoDBTag: "ignored"}, "admin-1")

	assert.Equal(t, "Tennis Court", result["name"])
	assert.Equal(t, &zero, result["count"])
	assert.NotContains(t, result, "status")
	assert.NotContains(t, result, "NoDBTag")
	assert.Equal(t, "admin-1", result[constant.FieldModifiedBy])

	_, isTime := result[constant.FieldModifiedAt].(time.Time)
	assert.True(t, isTime)
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("550e8400-e29b-41d4-a716-446655440000", "id", "facilities")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "550e8400-e29b-41d4-a716-446655440000",
				Operator: dto.FilterOperatorEq,
				Table:    "facilities",
			},
		},
	}, result)
}

func TestFilterEq(t *testing.T) {
	group := shared.FilterEq("bookings", map[string]string{
		"status":        "pending",
		"facility_name": "",
		"booking_date":  "2025-11-01",
	})

	assert.Equal(t, dto.FilterGroupOperatorAnd, group.Operator)
	assert.Len(t, group.Filters, 2)

	where, args := group.GetWhereClause()
	assert.Equal(t, "(bookings.booking_date = :booking_date AND bookings.status = :status)", where)
	assert.Equal(t, map[string]any{"booking_date": "2025-11-01", "status": "pending"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "facility:get:42", shared.BuildCacheKey("facility:get", "42"))
	assert.Equal(t, "facility:gets", shared.BuildCacheKey("facility:gets"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	sport := shared.FilterEq("facilities", map[string]string{"category": "sport"})
	event := shared.FilterEq("facilities", map[string]string{"category": "event"})

	assert.Equal(t,
		shared.BuildCacheKeyWithQuery("facility:gets", params, sport),
		shared.BuildCacheKeyWithQuery("facility:gets", params, sport),
	)
	assert.NotEqual(t,
		shared.BuildCacheKeyWithQuery("facility:gets", params, sport),
		shared.BuildCacheKeyWithQuery("facility:gets", params, event),
	)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := mocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Clear(gomock.Any(), "facility:gets*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "facility:count*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "facility:gets")
	shared.InvalidateCaches(context.Background(), mockCache, "facility:count")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, shared.IsAdmin(constant.RoleAdmin))
	assert.True(t, shared.IsAdmin(constant.RoleSuperAdmin))
	assert.False(t, shared.IsAdmin(constant.RoleResident))
	assert.False(t, shared.IsAdmin(""))
}

func TestActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "resident-7")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleResident)

	userID, role := shared.Actor(ctx)
	assert.Equal(t, "resident-7", userID)
	assert.Equal(t, constant.RoleResident, role)

	userID, role = shared.Actor(context.Background())
	assert.Empty(t, userID)
	assert.Empty(t, role)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)}
	foreignKey := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)}

	assert.True(t, shared.IsUniqueViolation(unique))
	assert.True(t, shared.IsUniqueViolation(fmt.Errorf("insert facility: %w", unique)))
	assert.False(t, shared.IsUniqueViolation(foreignKey))
	assert.False(t, shared.IsUniqueViolation(errors.New("boom")))
	assert.False(t, shared.IsUniqueViolation(nil))
}

func TestRestrictToOwner(t *testing.T) {
	resident := context.WithValue(context.Background(), constant.ContextKeyUserID, "resident-7")
	resident = context.WithValue(resident, constant.ContextKeyUserRole, constant.RoleResident)

	admin := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	admin = context.WithValue(admin, constant.ContextKeyUserRole, constant.RoleAdmin)

	status := shared.FilterEq("fees", map[string]string{"status": "pending"})

	owned := shared.RestrictToOwner(resident, status, "fees", "resident_id")
	where, args := owned.GetWhereClause()
	assert.Equal(t, "((fees.status = :status) AND fees.resident_id = :resident_id)", where)
	assert.Equal(t, map[string]any{"status": "pending", "resident_id": "resident-7"}, args)

	ownedEmpty := shared.RestrictToOwner(resident, dto.FilterGroup{}, "fees", "resident_id")
	where, _ = ownedEmpty.GetWhereClause()
	assert.Equal(t, "(fees.resident_id = :resident_id)", where)

	assert.Equal(t, status, shared.RestrictToOwner(admin, status, "fees", "resident_id"))
}

func boolPtr(b bool) *bool {
	return &b
}
