package model

import (
	"estatehub/shared/model"
	"time"
)

const (
	TableName  = "blocked_dates"
	EntityName = "blocked date"

	FieldID           = "id"
	FieldFacilityID   = "facility_id"
	FieldFacilityName = "facility_name"
	FieldBlockedDate  = "blocked_date"
)

const joinFacilities = "JOIN facilities ON facilities.id = blocked_dates.facility_id"

// BlockedDate closes a facility for a whole calendar day.
type BlockedDate struct {
	ID           string    `db:"id"`
	FacilityID   string    `db:"facility_id"`
	FacilityName string    `db:"facility_name" table:"facilities" column:"name"`
	BlockedDate  time.Time `db:"blocked_date"`
	Reason       string    `db:"reason"`
	model.Metadata
}

func (BlockedDate) GetJoinQuery() string {
	return joinFacilities
}

func (b BlockedDate) Exists() bool {
	return b.ID != ""
}
