package dto

import (
	"estatehub/internal/domains/blockeddate/model"
	facilityModel "estatehub/internal/domains/facility/model"
	"estatehub/shared"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type BlockDateRequest struct {
	FacilityName string `json:"facilityName" validate:"required,max=100"`
	Date         string `json:"date"         validate:"required,calendar"`
	Reason       string `json:"reason"       validate:"required,max=255"`
}

func (b *BlockDateRequest) ToModel(facility facilityModel.Facility, date time.Time, user string) model.BlockedDate {
	now := timezone.Now()

	return model.BlockedDate{
		ID:           uuid.NewString(),
		FacilityID:   facility.ID,
		FacilityName: facility.Name,
		BlockedDate:  date,
		Reason:       b.Reason,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BlockedDateResponse struct {
	ID           string `json:"id"`
	FacilityID   string `json:"facilityId"`
	FacilityName string `json:"facilityName"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
	gDto.Metadata
}

func (r *BlockedDateResponse) FromModel(model model.BlockedDate) {
	r.ID = model.ID
	r.FacilityID = model.FacilityID
	r.FacilityName = model.FacilityName
	r.Date = timezone.FormatDate(model.BlockedDate)
	r.Reason = model.Reason
	r.Metadata.FromModel(model.Metadata)
}

type GetBlockedDatesResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
	TotalPage    int                   `json:"totalPage"`
	TotalData    int                   `json:"totalData"`
}

func (r *GetBlockedDatesResponse) FromModels(models []model.BlockedDate, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.BlockedDates = make([]BlockedDateResponse, len(models))
	for i, mod := range models {
		r.BlockedDates[i].FromModel(mod)
	}
}
