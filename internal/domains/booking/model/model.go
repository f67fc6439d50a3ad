package model

import (
	"estatehub/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldFacilityID   = "facility_id"
	FieldFacilityName = "facility_name"
	FieldCategory     = "category"
	FieldRequesterID  = "requester_id"
	FieldBookingDate  = "booking_date"
	FieldStartMinute  = "start_minute"
	FieldEndMinute    = "end_minute"
	FieldStatus       = "status"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{StatusPending, StatusApproved}

// Booking reserves [StartMinute, EndMinute) of BookingDate. FacilityName is kept
// on the row so history survives the facility being removed.
type Booking struct {
	ID            string    `db:"id"`
	FacilityID    *string   `db:"facility_id"`
	FacilityName  string    `db:"facility_name"`
	Category      string    `db:"category"`
	RequesterID   string    `db:"requester_id"`
	BookingDate   time.Time `db:"booking_date"`
	StartMinute   int       `db:"start_minute"`
	EndMinute     int       `db:"end_minute"`
	DurationHours int       `db:"duration_hours"`
	Guests        int       `db:"guests"`
	EventType     string    `db:"event_type"`
	Description   string    `db:"description"`
	Status        string    `db:"status"`
	model.Metadata
}

func (b Booking) Exists() bool {
	return b.ID != ""
}

func (b Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// Overlaps uses half-open ranges, so back-to-back slots do not collide.
func (b Booking) Overlaps(startMinute, endMinute int) bool {
	return b.StartMinute < endMinute && startMinute < b.EndMinute
}

func (b Booking) OwnedBy(userID string) bool {
	return userID != "" && b.RequesterID == userID
}

func IsStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}
