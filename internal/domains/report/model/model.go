package model

import (
	"estatehub/shared/model"
	"slices"
)

const (
	TableName  = "reports"
	EntityName = "report"

	FieldID              = "id"
	FieldResidentID      = "resident_id"
	FieldCategory        = "category"
	FieldPriority        = "priority"
	FieldStatus          = "status"
	FieldAssignee        = "assignee"
	FieldResolutionNotes = "resolution_notes"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Report struct {
	ID              string `db:"id"`
	ResidentID      string `db:"resident_id"`
	Category        string `db:"category"`
	Subject         string `db:"subject"`
	Description     string `db:"description"`
	Priority        string `db:"priority"`
	Status          string `db:"status"`
	Assignee        string `db:"assignee"`
	ResolutionNotes string `db:"resolution_notes"`
	model.Metadata
}

func (r Report) Exists() bool {
	return r.ID != ""
}

// Closed reports accept no further action.
func (r Report) Closed() bool {
	return slices.Contains([]string{StatusResolved, StatusRejected}, r.Status)
}
