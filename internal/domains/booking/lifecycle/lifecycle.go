// Package lifecycle holds the booking approval state machine.
package lifecycle

import (
	"estatehub/internal/domains/booking/model"
	"estatehub/shared/failure"
	"fmt"
)

const (
	errUnknownStatus = "unknown booking status %q"
	errTerminal      = "booking is already %s"
	errUndefined     = "booking cannot move from %s to %s"
	errNotAllowed    = "you are not allowed to move a booking from %s to %s"
)

// Actor describes who asks for a transition relative to the booking.
type Actor struct {
	Admin bool
	Owner bool
}

type Policy struct {
	// ResidentCancelApproved lets the owning resident cancel an approved booking.
	ResidentCancelApproved bool
}

type rule func(actor Actor, policy Policy) bool

func admin(actor Actor, _ Policy) bool {
	return actor.Admin
}

func owner(actor Actor, _ Policy) bool {
	return actor.Owner
}

func adminOrPermittedOwner(actor Actor, policy Policy) bool {
	return actor.Admin || (actor.Owner && policy.ResidentCancelApproved)
}

var transitions = map[string]map[string]rule{
	model.StatusPending: {
		model.StatusApproved:  admin,
		model.StatusRejected:  admin,
		model.StatusCancelled: owner,
	},
	model.StatusApproved: {
		model.StatusCancelled: adminOrPermittedOwner,
	},
}

func IsTerminal(status string) bool {
	return status == model.StatusRejected || status == model.StatusCancelled
}

// CanTransition reports whether actor may move a booking from one status to another.
func CanTransition(from, to string, actor Actor, policy Policy) error {
	if !model.IsStatus(to) {
		return failure.BadRequestFromString(fmt.Sprintf(errUnknownStatus, to))
	}

	if IsTerminal(from) {
		return failure.Conflict(fmt.Sprintf(errTerminal, from))
	}

	allowed, ok := transitions[from][to]
	if !ok {
		return failure.Conflict(fmt.Sprintf(errUndefined, from, to))
	}

	if !allowed(actor, policy) {
		return failure.Forbidden(fmt.Sprintf(errNotAllowed, from, to))
	}

	return nil
}
