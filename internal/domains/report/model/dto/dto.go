package dto

import (
	"estatehub/internal/domains/report/model"
	"estatehub/shared"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"

	"github.com/google/uuid"
)

type SubmitReportRequest struct {
	Category    string `json:"category"    validate:"required,max=50"`
	Subject     string `json:"subject"     validate:"required,max=150"`
	Description string `json:"description" validate:"required,max=2000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
}

func (s *SubmitReportRequest) ToModel(user string) model.Report {
	priority := s.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := timezone.Now()

	return model.Report{
		ID:          uuid.NewString(),
		ResidentID:  user,
		Category:    s.Category,
		Subject:     s.Subject,
		Description: s.Description,
		Priority:    priority,
		Status:      model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AssignReportRequest struct {
	Assignee string `json:"assignee" validate:"required,max=100"`
}

type CloseReportRequest struct {
	Notes string `json:"notes" validate:"required,max=2000"`
}

type ReportResponse struct {
	ID              string `json:"id"`
	ResidentID      string `json:"residentId"`
	Category        string `json:"category"`
	Subject         string `json:"subject"`
	Description     string `json:"description"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	Assignee        string `json:"assignee,omitempty"`
	ResolutionNotes string `json:"resolutionNotes,omitempty"`
	gDto.Metadata
}

func (r *ReportResponse) FromModel(model model.Report) {
	r.ID = model.ID
	r.ResidentID = model.ResidentID
	r.Category = model.Category
	r.Subject = model.Subject
	r.Description = model.Description
	r.Priority = model.Priority
	r.Status = model.Status
	r.Assignee = model.Assignee
	r.ResolutionNotes = model.ResolutionNotes
	r.Metadata.FromModel(model.Metadata)
}

type GetReportsResponse struct {
	Reports   []ReportResponse `json:"reports"`
	TotalPage int              `json:"totalPage"`
	TotalData int              `json:"totalData"`
}

func (r *GetReportsResponse) FromModels(models []model.Report, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reports = make([]ReportResponse, len(models))
	for i, mod := range models {
		r.Reports[i].FromModel(mod)
	}
}
