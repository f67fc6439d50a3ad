// Package availability decides whether a booking request fits a facility's calendar.
//
// Check is pure: everything it needs is passed in, so the same rules run inside the
// write transaction and in tests.
package availability

import (
	blockedModel "estatehub/internal/domains/blockeddate/model"
	"estatehub/internal/domains/booking/model"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared/constant"
	"estatehub/shared/failure"
	"estatehub/shared/timezone"
	"fmt"
	"time"
)

const (
	errGuestCeiling     = "event hall bookings are limited to %d guests"
	errFacilityNotFound = "facility not found"
	errMaintenance      = "facility %s is under maintenance"
	errCategoryMismatch = "facility %s is not a %s facility"
	errBlocked          = "facility %s is blocked on %s: %s"
	errPastDate         = "booking date %s is in the past"
	errPastSlot         = "start time %s has already passed"
	errEndBeforeStart   = "end time must be later than start time"
	errOverCapacity     = "guests exceed the capacity of %s (%d)"
	errTooLong          = "sport bookings may last at most %d hours"
	errPastMidnight     = "booking must end by midnight"
	errOverlap          = "facility %s is already booked between %s and %s"
)

type Request struct {
	Category      string
	Date          time.Time
	StartMinute   int
	EndMinute     int
	DurationHours int
	Guests        int
}

type Policy struct {
	EventGuestCeiling     int
	MaxSportDurationHours int
}

// Snapshot is the state of one facility on one day. A zero Facility means it does not exist.
type Snapshot struct {
	Facility facilityModel.Facility
	Blocks   []blockedModel.BlockedDate
	Bookings []model.Booking
}

// CheckCeiling rejects oversized event requests before anything is looked up.
func CheckCeiling(req Request, policy Policy) error {
	if req.Category == facilityModel.CategoryEvent && policy.EventGuestCeiling > 0 && req.Guests > policy.EventGuestCeiling {
		return failure.BadRequestFromString(fmt.Sprintf(errGuestCeiling, policy.EventGuestCeiling))
	}

	return nil
}

// Check returns the first rule the request breaks. now must be in the application timezone.
func Check(req Request, snap Snapshot, now time.Time, policy Policy) error {
	if err := CheckCeiling(req, policy); err != nil {
		return err
	}

	facility := snap.Facility
	if !facility.Exists() {
		return failure.NotFound(errFacilityNotFound)
	}

	if !facility.Available() {
		return failure.BadRequestFromString(fmt.Sprintf(errMaintenance, facility.Name))
	}

	if facility.Category != req.Category {
		return failure.BadRequestFromString(fmt.Sprintf(errCategoryMismatch, facility.Name, req.Category))
	}

	day := timezone.FormatDate(req.Date)

	for _, block := range snap.Blocks {
		if timezone.FormatDate(block.BlockedDate) == day {
			return failure.BadRequestFromString(fmt.Sprintf(errBlocked, facility.Name, day, block.Reason))
		}
	}

	if err := checkNotPast(req, day, now); err != nil {
		return err
	}

	if err := checkShape(req, policy); err != nil {
		return err
	}

	if req.Guests > facility.Capacity {
		return failure.BadRequestFromString(fmt.Sprintf(errOverCapacity, facility.Name, facility.Capacity))
	}

	for _, booking := range snap.Bookings {
		if !booking.Active() || timezone.FormatDate(booking.BookingDate) != day {
			continue
		}

		if booking.Overlaps(req.StartMinute, req.EndMinute) {
			return failure.Conflict(fmt.Sprintf(errOverlap, facility.Name,
				timezone.FormatClock(booking.StartMinute), timezone.FormatClock(booking.EndMinute)))
		}
	}

	return nil
}

// checkNotPast works at hour granularity on the current day.
func checkNotPast(req Request, day string, now time.Time) error {
	today := now.Format(constant.CalendarFormat)

	if day < today {
		return failure.BadRequestFromString(fmt.Sprintf(errPastDate, day))
	}

	if day == today && req.StartMinute/constant.MinutesPerHour <= now.Hour() {
		return failure.BadRequestFromString(fmt.Sprintf(errPastSlot, timezone.FormatClock(req.StartMinute)))
	}

	return nil
}

func checkShape(req Request, policy Policy) error {
	switch req.Category {
	case facilityModel.CategoryEvent:
		if req.EndMinute <= req.StartMinute {
			return failure.BadRequestFromString(errEndBeforeStart)
		}
	case facilityModel.CategorySport:
		if policy.MaxSportDurationHours > 0 && req.DurationHours > policy.MaxSportDurationHours {
			return failure.BadRequestFromString(fmt.Sprintf(errTooLong, policy.MaxSportDurationHours))
		}

		if req.EndMinute > constant.MinutesPerDay {
			return failure.BadRequestFromString(errPastMidnight)
		}
	}

	return nil
}
