package lifecycle_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"estatehub/internal/domains/booking/lifecycle"
	"estatehub/internal/domains/booking/model"
	"estatehub/shared/failure"
)

var (
	adminActor    = lifecycle.Actor{Admin: true}
	ownerActor    = lifecycle.Actor{Owner: true}
	strangerActor = lifecycle.Actor{}

	permissive = lifecycle.Policy{ResidentCancelApproved: true}
	strict     = lifecycle.Policy{}
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		actor    lifecycle.Actor
		policy   lifecycle.Policy
		wantCode int
	}{
		{name: "admin approves pending", from: model.StatusPending, to: model.StatusApproved, actor: adminActor},
		{name: "admin rejects pending", from: model.StatusPending, to: model.StatusRejected, actor: adminActor},
		{name: "owner cancels pending", from: model.StatusPending, to: model.StatusCancelled, actor: ownerActor},
		{name: "admin cancels approved", from: model.StatusApproved, to: model.StatusCancelled, actor: adminActor, policy: strict},
		{name: "owner cancels approved when allowed", from: model.StatusApproved, to: model.StatusCancelled, actor: ownerActor, policy: permissive},
		{
			name: "owner cannot cancel approved when disallowed", from: model.StatusApproved, to: model.StatusCancelled,
			actor: ownerActor, policy: strict, wantCode: http.StatusForbidden,
		},
		{name: "owner cannot approve", from: model.StatusPending, to: model.StatusApproved, actor: ownerActor, wantCode: http.StatusForbidden},
		{name: "stranger cannot cancel", from: model.StatusPending, to: model.StatusCancelled, actor: strangerActor, wantCode: http.StatusForbidden},
		{name: "admin cannot cancel someone else's pending", from: model.StatusPending, to: model.StatusCancelled, actor: adminActor, wantCode: http.StatusForbidden},
		{name: "approved cannot be rejected", from: model.StatusApproved, to: model.StatusRejected, actor: adminActor, wantCode: http.StatusConflict},
		{name: "no self transition", from: model.StatusPending, to: model.StatusPending, actor: adminActor, wantCode: http.StatusConflict},
		{name: "approved cannot be approved again", from: model.StatusApproved, to: model.StatusApproved, actor: adminActor, wantCode: http.StatusConflict},
		{name: "unknown target status", from: model.StatusPending, to: "archived", actor: adminActor, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lifecycle.CanTransition(tt.from, tt.to, tt.actor, tt.policy)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestCanTransition_TerminalStatesNeverMove(t *testing.T) {
	actors := []lifecycle.Actor{adminActor, ownerActor, {Admin: true, Owner: true}}
	statuses := []string{model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCancelled}

	for _, from := range []string{model.StatusRejected, model.StatusCancelled} {
		for _, to := range statuses {
			for _, actor := range actors {
				err := lifecycle.CanTransition(from, to, actor, permissive)

				assert.Equal(t, http.StatusConflict, failure.GetCode(err), "%s -> %s", from, to)
			}
		}
	}
}

func TestCanTransition_PendingReachesEachOutcomeOnce(t *testing.T) {
	both := lifecycle.Actor{Admin: true, Owner: true}

	for _, to := range []string{model.StatusApproved, model.StatusRejected, model.StatusCancelled} {
		assert.NoError(t, lifecycle.CanTransition(model.StatusPending, to, both, permissive))

		if to != model.StatusApproved {
			assert.True(t, lifecycle.IsTerminal(to))
		}
	}
}
