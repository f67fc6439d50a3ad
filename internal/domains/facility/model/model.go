package model

import "estatehub/shared/model"

const (
	TableName  = "facilities"
	EntityName = "facility"

	FieldID       = "id"
	FieldName     = "name"
	FieldCategory = "category"
	FieldStatus   = "status"
)

const (
	CategorySport = "sport"
	CategoryEvent = "event"
)

const (
	StatusAvailable   = "available"
	StatusMaintenance = "maintenance"
)

type Facility struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	Description string `db:"description"`
	Capacity    int    `db:"capacity"`
	Status      string `db:"status"`
	model.Metadata
}

func (f Facility) Exists() bool {
	return f.ID != ""
}

func (f Facility) Available() bool {
	return f.Status == StatusAvailable
}

// ToggledStatus flips between available and maintenance.
func (f Facility) ToggledStatus() string {
	if f.Status == StatusAvailable {
		return StatusMaintenance
	}

	return StatusAvailable
}
