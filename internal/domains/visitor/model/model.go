package model

import (
	"estatehub/shared/model"
	"time"
)

const (
	TableName  = "visitors"
	EntityName = "visitor"

	FieldID         = "id"
	FieldResidentID = "resident_id"
	FieldName       = "name"
	FieldStatus     = "status"
	FieldCheckInAt  = "check_in_at"
	FieldCheckOutAt = "check_out_at"
)

const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
)

type Visitor struct {
	ID           string     `db:"id"`
	ResidentID   string     `db:"resident_id"`
	Name         string     `db:"name"`
	Phone        string     `db:"phone"`
	Purpose      string     `db:"purpose"`
	CheckInAt    time.Time  `db:"check_in_at"`
	CheckOutAt   *time.Time `db:"check_out_at"`
	Status       string     `db:"status"`
	PassCodeHash string     `db:"pass_code_hash"`
	model.Metadata
}

func (v Visitor) Exists() bool {
	return v.ID != ""
}

func (v Visitor) CheckedIn() bool {
	return v.Status == StatusCheckedIn
}
