package validator_test

import (
	"estatehub/shared/failure"
	"estatehub/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type bookingForm struct {
	Name      string `json:"name"      validate:"required"`
	Email     string `json:"email"     validate:"omitempty,email"`
	Guests    int    `json:"guests"    validate:"gte=1,lte=120"`
	Category  string `json:"category"  validate:"oneof=sport event"`
	Date      string `json:"date"      validate:"required,calendar"`
	StartTime string `json:"startTime" validate:"required,clock"`
	Period    string `json:"period"    validate:"omitempty,period"`
}

func validForm() bookingForm {
	return bookingForm{
		Name:      "Tennis Court",
		Guests:    2,
		Category:  "sport",
		Date:      "2025-11-01",
		StartTime: "10:00",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *bookingForm)
		wantMsg string
	}{
		{name: "valid struct", mutate: func(_ *bookingForm) {}},
		{name: "missing required field", mutate: func(f *bookingForm) { f.Name = "" }, wantMsg: "name is required"},
		{name: "invalid email", mutate: func(f *bookingForm) { f.Email = "nope" }, wantMsg: "email must be a valid email address"},
		{name: "guests out of range", mutate: func(f *bookingForm) { f.Guests = 150 }, wantMsg: "guests must be less than or equal to 120"},
		{name: "unknown category", mutate: func(f *bookingForm) { f.Category = "pool" }, wantMsg: "category must be one of sport event"},
		{name: "bad calendar date", mutate: func(f *bookingForm) { f.Date = "01/11/2025" }, wantMsg: "date must be a date formatted as yyyy-MM-dd"},
		{name: "impossible calendar date", mutate: func(f *bookingForm) { f.Date = "2025-02-30" }, wantMsg: "date must be a date formatted as yyyy-MM-dd"},
		{name: "bad clock", mutate: func(f *bookingForm) { f.StartTime = "25:00" }, wantMsg: "startTime must be a time formatted as HH:mm"},
		{name: "bad period", mutate: func(f *bookingForm) { f.Period = "2025-13" }, wantMsg: "period must be a period formatted as yyyy-MM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := validator.ValidateStruct(&form)
			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid oneof", field: "approved", tag: "oneof=pending approved rejected cancelled"},
		{name: "invalid oneof", field: "done", tag: "oneof=pending approved rejected cancelled", expectError: true},
		{name: "valid clock", field: "23:59", tag: "clock"},
		{name: "midnight end is not a clock", field: "24:00", tag: "clock", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"name":"Main Hall","guests":40,"category":"event","date":"2025-12-24","startTime":"18:00"}`,
		},
		{
			name:        "invalid field",
			jsonBody:    `{"name":"Main Hall","guests":0,"category":"event","date":"2025-12-24","startTime":"18:00"}`,
			expectError: true,
		},
		{name: "malformed JSON", jsonBody: `{"name":"Main Hall","guests":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingForm
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
