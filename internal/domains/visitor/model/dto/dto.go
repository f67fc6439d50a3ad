package dto

import (
	"estatehub/internal/domains/visitor/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"

	"github.com/google/uuid"
)

type CheckInRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Phone   string `json:"phone"   validate:"required,max=20"`
	Purpose string `json:"purpose" validate:"required,max=255"`
}

func (c *CheckInRequest) ToModel(passCodeHash, user string) model.Visitor {
	now := timezone.Now()

	return model.Visitor{
		ID:           uuid.NewString(),
		ResidentID:   user,
		Name:         c.Name,
		Phone:        c.Phone,
		Purpose:      c.Purpose,
		CheckInAt:    now,
		Status:       model.StatusCheckedIn,
		PassCodeHash: passCodeHash,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CheckOutRequest struct {
	PassCode string `json:"passCode" validate:"omitempty,len=6,numeric"`
}

type VisitorResponse struct {
	ID         string `json:"id"`
	ResidentID string `json:"residentId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Purpose    string `json:"purpose"`
	CheckInAt  string `json:"checkInAt"`
	CheckOutAt string `json:"checkOutAt,omitempty"`
	Status     string `json:"status"`
	gDto.Metadata
}

func (r *VisitorResponse) FromModel(model model.Visitor) {
	r.ID = model.ID
	r.ResidentID = model.ResidentID
	r.Name = model.Name
	r.Phone = model.Phone
	r.Purpose = model.Purpose
	r.CheckInAt = timezone.Format(model.CheckInAt, constant.DateFormat)
	r.Status = model.Status

	if model.CheckOutAt != nil {
		r.CheckOutAt = timezone.Format(*model.CheckOutAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

// VisitorPassResponse carries the gate pass code. It is only returned by check-in.
type VisitorPassResponse struct {
	VisitorResponse
	PassCode string `json:"passCode"`
}

type GetVisitorsResponse struct {
	Visitors  []VisitorResponse `json:"visitors"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetVisitorsResponse) FromModels(models []model.Visitor, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Visitors = make([]VisitorResponse, len(models))
	for i, mod := range models {
		r.Visitors[i].FromModel(mod)
	}
}
