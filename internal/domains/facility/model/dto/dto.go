package dto

import (
	"estatehub/internal/domains/facility/model"
	"estatehub/shared"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"

	"github.com/google/uuid"
)

type CreateFacilityRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Category    string `json:"category"    validate:"required,oneof=sport event"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Capacity    int    `json:"capacity"    validate:"required,gt=0"`
	Status      string `json:"status"      validate:"omitempty,oneof=available maintenance"`
}

func (c *CreateFacilityRequest) ToModel(user string) model.Facility {
	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	now := timezone.Now()

	return model.Facility{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		Capacity:    c.Capacity,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateFacilityRequest is a partial update, zero fields are left untouched.
type UpdateFacilityRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Category    string `db:"category"    json:"category"    validate:"omitempty,oneof=sport event"`
	Description string `db:"description" json:"description" validate:"omitempty,max=1000"`
	Capacity    *int   `db:"capacity"    json:"capacity"    validate:"omitempty,gt=0"`
	Status      string `db:"status"      json:"status"      validate:"omitempty,oneof=available maintenance"`
}

type FacilityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *FacilityResponse) FromModel(model model.Facility) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.Capacity = model.Capacity
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetFacilitiesResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	TotalPage  int                `json:"totalPage"`
	TotalData  int                `json:"totalData"`
}

func (r *GetFacilitiesResponse) FromModels(models []model.Facility, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Facilities = make([]FacilityResponse, len(models))
	for i, mod := range models {
		r.Facilities[i].FromModel(mod)
	}
}
