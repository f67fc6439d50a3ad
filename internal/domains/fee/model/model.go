package model

import (
	"estatehub/shared/model"
	"time"
)

const (
	TableName  = "fees"
	EntityName = "fee"

	FieldID            = "id"
	FieldBlock         = "block"
	FieldFloor         = "floor"
	FieldUnit          = "unit"
	FieldResidentID    = "resident_id"
	FieldPeriod        = "period"
	FieldDueDate       = "due_date"
	FieldStatus        = "status"
	FieldPaidAt        = "paid_at"
	FieldPaymentMethod = "payment_method"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// PayableStatuses are the statuses a payment may settle.
var PayableStatuses = []string{StatusPending, StatusOverdue}

type Fee struct {
	ID            string     `db:"id"`
	Block         string     `db:"block"`
	Floor         string     `db:"floor"`
	Unit          string     `db:"unit"`
	ResidentID    string     `db:"resident_id"`
	Period        string     `db:"period"`
	Amount        int64      `db:"amount"`
	DueDate       time.Time  `db:"due_date"`
	Status        string     `db:"status"`
	PaidAt        *time.Time `db:"paid_at"`
	PaymentMethod string     `db:"payment_method"`
	model.Metadata
}

func (f Fee) Exists() bool {
	return f.ID != ""
}

func (f Fee) Paid() bool {
	return f.Status == StatusPaid
}
