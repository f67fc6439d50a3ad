package dto

import (
	"estatehub/internal/domains/booking/availability"
	"estatehub/internal/domains/booking/model"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	"estatehub/shared/failure"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	errInvalidDate  = "date must use the yyyy-MM-dd format"
	errInvalidClock = "%s must use the HH:mm 24-hour format"
)

type CreateSportBookingRequest struct {
	SportName string `json:"sportName" validate:"required,max=100"`
	Date      string `json:"date"      validate:"required,calendar"`
	StartTime string `json:"startTime" validate:"required,clock"`
	Duration  int    `json:"duration"  validate:"required,gt=0"`
	Guests    int    `json:"guests"    validate:"required,gt=0"`
	UserID    string `json:"userId"    validate:"omitempty,max=64"`
}

func (c *CreateSportBookingRequest) ToAvailabilityRequest() (availability.Request, error) {
	date, startMinute, err := parseSlot(c.Date, c.StartTime, "startTime")
	if err != nil {
		return availability.Request{}, err
	}

	return availability.Request{
		Category:      facilityModel.CategorySport,
		Date:          date,
		StartMinute:   startMinute,
		EndMinute:     startMinute + c.Duration*constant.MinutesPerHour,
		DurationHours: c.Duration,
		Guests:        c.Guests,
	}, nil
}

type CreateEventBookingRequest struct {
	HallName    string `json:"hallName"    validate:"required,max=100"`
	EventType   string `json:"eventType"   validate:"required,max=100"`
	Date        string `json:"date"        validate:"required,calendar"`
	StartTime   string `json:"startTime"   validate:"required,clock"`
	EndTime     string `json:"endTime"     validate:"required,clock"`
	Guests      int    `json:"guests"      validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	UserID      string `json:"userId"      validate:"omitempty,max=64"`
}

func (c *CreateEventBookingRequest) ToAvailabilityRequest() (availability.Request, error) {
	date, startMinute, err := parseSlot(c.Date, c.StartTime, "startTime")
	if err != nil {
		return availability.Request{}, err
	}

	endMinute, err := timezone.ParseClock(c.EndTime)
	if err != nil {
		return availability.Request{}, failure.BadRequestFromString(fmt.Sprintf(errInvalidClock, "endTime"))
	}

	return availability.Request{
		Category:    facilityModel.CategoryEvent,
		Date:        date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Guests:      c.Guests,
	}, nil
}

func parseSlot(dateValue, clockValue, clockField string) (time.Time, int, error) {
	date, err := timezone.ParseDate(dateValue)
	if err != nil {
		return time.Time{}, 0, failure.BadRequestFromString(errInvalidDate)
	}

	minute, err := timezone.ParseClock(clockValue)
	if err != nil {
		return time.Time{}, 0, failure.BadRequestFromString(fmt.Sprintf(errInvalidClock, clockField))
	}

	return date, minute, nil
}

// NewBooking builds a pending booking for facility out of an accepted request.
func NewBooking(req availability.Request, facility facilityModel.Facility, requesterID, eventType, description, user string) model.Booking {
	now := timezone.Now()
	facilityID := facility.ID

	return model.Booking{
		ID:            uuid.NewString(),
		FacilityID:    &facilityID,
		FacilityName:  facility.Name,
		Category:      req.Category,
		RequesterID:   requesterID,
		BookingDate:   req.Date,
		StartMinute:   req.StartMinute,
		EndMinute:     req.EndMinute,
		DurationHours: req.DurationHours,
		Guests:        req.Guests,
		EventType:     eventType,
		Description:   description,
		Status:        model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingResponse struct {
	ID           string `json:"id"`
	FacilityID   string `json:"facilityId"`
	FacilityName string `json:"facilityName"`
	Category     string `json:"category"`
	UserID       string `json:"userId"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Duration     int    `json:"duration,omitempty"`
	Guests       int    `json:"guests"`
	EventType    string `json:"eventType,omitempty"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.FacilityName = model.FacilityName
	r.Category = model.Category
	r.UserID = model.RequesterID
	r.Date = timezone.FormatDate(model.BookingDate)
	r.StartTime = timezone.FormatClock(model.StartMinute)
	r.EndTime = timezone.FormatClock(model.EndMinute)
	r.Duration = model.DurationHours
	r.Guests = model.Guests
	r.EventType = model.EventType
	r.Description = model.Description
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)

	if model.FacilityID != nil {
		r.FacilityID = *model.FacilityID
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type Slot struct {
	BookingID string `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// AvailabilityResponse describes one facility on one day.
type AvailabilityResponse struct {
	FacilityName string `json:"facilityName"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	Blocked      bool   `json:"blocked"`
	BlockReason  string `json:"blockReason,omitempty"`
	Occupied     []Slot `json:"occupied"`
}

func (r *AvailabilityResponse) FromSnapshot(snap availability.Snapshot, date time.Time) {
	r.FacilityName = snap.Facility.Name
	r.Category = snap.Facility.Category
	r.Status = snap.Facility.Status
	r.Date = timezone.FormatDate(date)
	r.Occupied = []Slot{}

	for _, block := range snap.Blocks {
		if timezone.FormatDate(block.BlockedDate) == r.Date {
			r.Blocked = true
			r.BlockReason = block.Reason

			break
		}
	}

	for _, booking := range snap.Bookings {
		if !booking.Active() {
			continue
		}

		r.Occupied = append(r.Occupied, Slot{
			BookingID: booking.ID,
			StartTime: timezone.FormatClock(booking.StartMinute),
			EndTime:   timezone.FormatClock(booking.EndMinute),
			Status:    booking.Status,
		})
	}
}
