package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"estatehub/infras/otel/mocks"
	visitorMocks "estatehub/internal/domains/visitor/mocks"
	"estatehub/internal/domains/visitor/model"
	"estatehub/internal/domains/visitor/model/dto"
	"estatehub/internal/domains/visitor/service"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	"estatehub/shared/passcode"
)

func contextAs(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func newService(t *testing.T) (service.Visitor, *visitorMocks.MockVisitor) {
	ctrl := gomock.NewController(t)
	mockRepo := visitorMocks.NewMockVisitor(ctrl)

	return service.New(mockRepo, mocks.NewOtel()), mockRepo
}

func TestVisitorService_CheckIn(t *testing.T) {
	svc, repo := newService(t)

	var stored model.Visitor

	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, visitor model.Visitor) error {
			stored = visitor

			return nil
		})

	res, err := svc.CheckIn(contextAs("resident-7", constant.RoleResident), dto.CheckInRequest{
		Name:    "Sari",
		Phone:   "08123456789",
		Purpose: "family visit",
	})

	require.NoError(t, err)
	assert.Len(t, res.PassCode, 6)
	assert.Equal(t, model.StatusCheckedIn, res.Status)
	assert.Equal(t, "resident-7", stored.ResidentID)
	assert.NotEqual(t, res.PassCode, stored.PassCodeHash)
	assert.NoError(t, passcode.Verify(res.PassCode, stored.PassCodeHash))
}

func TestVisitorService_CheckIn_InsertFailure(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.CheckIn(contextAs("resident-7", constant.RoleResident), dto.CheckInRequest{Name: "Sari", Phone: "0812", Purpose: "visit"})

	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestVisitorService_CheckOut(t *testing.T) {
	hash, err := passcode.Hash("482913")
	require.NoError(t, err)

	checkedIn := model.Visitor{ID: "v-1", ResidentID: "resident-7", Status: model.StatusCheckedIn, PassCodeHash: hash}
	checkedOut := model.Visitor{ID: "v-1", ResidentID: "resident-7", Status: model.StatusCheckedOut, PassCodeHash: hash}

	tests := []struct {
		name     string
		ctx      context.Context
		code     string
		found    model.Visitor
		affected int64
		wantCode int
	}{
		{name: "host resident without code", ctx: contextAs("resident-7", constant.RoleResident), found: checkedIn, affected: 1},
		{name: "admin with the right code", ctx: contextAs("admin-1", constant.RoleAdmin), code: "482913", found: checkedIn, affected: 1},
		{name: "admin with a wrong code", ctx: contextAs("admin-1", constant.RoleAdmin), code: "000000", found: checkedIn, wantCode: http.StatusForbidden},
		{name: "admin without code", ctx: contextAs("admin-1", constant.RoleAdmin), found: checkedIn, wantCode: http.StatusForbidden},
		{name: "another resident", ctx: contextAs("resident-9", constant.RoleResident), code: "482913", found: checkedIn, wantCode: http.StatusForbidden},
		{name: "already checked out", ctx: contextAs("resident-7", constant.RoleResident), found: checkedOut, wantCode: http.StatusConflict},
		{name: "checked out concurrently", ctx: contextAs("resident-7", constant.RoleResident), found: checkedIn, affected: 0, wantCode: http.StatusConflict},
		{name: "unknown visitor", ctx: contextAs("resident-7", constant.RoleResident), wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)
			repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.affected, nil).AnyTimes()

			res, err := svc.CheckOut(tt.ctx, dto.CheckOutRequest{PassCode: tt.code}, "v-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCheckedOut, res.Status)
			assert.NotEmpty(t, res.CheckOutAt)
		})
	}
}

func TestVisitorService_GetAll(t *testing.T) {
	svc, repo := newService(t)

	repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "resident-7", args[model.FieldResidentID])

			return 1, nil
		})
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Visitor{{ID: "v-1", Name: "Sari"}}, nil)

	res, err := svc.GetAll(contextAs("resident-7", constant.RoleResident), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, "Sari", res.Visitors[0].Name)
}

func TestVisitorService_Get(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Visitor{ID: "v-1", ResidentID: "resident-7"}, nil)

	_, err := svc.Get(contextAs("resident-9", constant.RoleResident), "v-1")

	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}
