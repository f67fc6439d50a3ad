// Package exporter renders booking listings as spreadsheets.
package exporter

import (
	"bytes"
	"estatehub/internal/domains/booking/model/dto"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	SheetName    = "Bookings"
)

var headers = []string{
	"ID", "Facility", "Category", "User ID", "Date", "Start", "End",
	"Duration (h)", "Guests", "Event Type", "Description", "Status", "Created At",
}

// XLSX writes one header row followed by one row per booking.
func XLSX(bookings []dto.BookingResponse) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := file.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, booking := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve row %d: %w", i+2, err)
		}

		row := []any{
			booking.ID,
			booking.FacilityName,
			booking.Category,
			booking.UserID,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			booking.Duration,
			booking.Guests,
			booking.EventType,
			booking.Description,
			booking.Status,
			booking.CreatedAt,
		}

		if err = file.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
