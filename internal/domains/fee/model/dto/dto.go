package dto

import (
	"estatehub/internal/domains/fee/model"
	"estatehub/shared"
	"estatehub/shared/constant"
	gDto "estatehub/shared/dto"
	gModel "estatehub/shared/model"
	"estatehub/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type GenerateFeeRequest struct {
	Block      string `json:"block"      validate:"required,max=20"`
	Floor      string `json:"floor"      validate:"required,max=20"`
	Unit       string `json:"unit"       validate:"required,max=20"`
	ResidentID string `json:"residentId" validate:"required"`
	Period     string `json:"period"     validate:"required,period"`
	Amount     int64  `json:"amount"     validate:"required,gt=0"`
	DueDate    string `json:"dueDate"    validate:"required,calendar"`
}

func (g *GenerateFeeRequest) ToModel(dueDate time.Time, user string) model.Fee {
	now := timezone.Now()

	return model.Fee{
		ID:         uuid.NewString(),
		Block:      g.Block,
		Floor:      g.Floor,
		Unit:       g.Unit,
		ResidentID: g.ResidentID,
		Period:     g.Period,
		Amount:     g.Amount,
		DueDate:    dueDate,
		Status:     model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type PayFeeRequest struct {
	Method string `json:"method" validate:"required,oneof=cash transfer card ewallet"`
}

type FeeResponse struct {
	ID            string `json:"id"`
	Block         string `json:"block"`
	Floor         string `json:"floor"`
	Unit          string `json:"unit"`
	ResidentID    string `json:"residentId"`
	Period        string `json:"period"`
	Amount        int64  `json:"amount"`
	DueDate       string `json:"dueDate"`
	Status        string `json:"status"`
	PaidAt        string `json:"paidAt,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	gDto.Metadata
}

func (r *FeeResponse) FromModel(model model.Fee) {
	r.ID = model.ID
	r.Block = model.Block
	r.Floor = model.Floor
	r.Unit = model.Unit
	r.ResidentID = model.ResidentID
	r.Period = model.Period
	r.Amount = model.Amount
	r.DueDate = timezone.FormatDate(model.DueDate)
	r.Status = model.Status
	r.PaymentMethod = model.PaymentMethod

	if model.PaidAt != nil {
		r.PaidAt = timezone.Format(*model.PaidAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetFeesResponse struct {
	Fees      []FeeResponse `json:"fees"`
	TotalPage int           `json:"totalPage"`
	TotalData int           `json:"totalData"`
}

func (r *GetFeesResponse) FromModels(models []model.Fee, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Fees = make([]FeeResponse, len(models))
	for i, mod := range models {
		r.Fees[i].FromModel(mod)
	}
}

type MarkOverdueResponse struct {
	Updated int64 `json:"updated"`
}
