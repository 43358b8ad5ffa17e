package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hotel/internal/domains/analytics/model/dto"
)

const (
	sheetSummary = "Summary"
	sheetMonthly = "Monthly"
	sheetRooms   = "Rooms"
	sheetLoyalty = "Loyalty"
	defaultSheet = "Sheet1"
)

// renderWorkbook lays the report out over one sheet per section.
func renderWorkbook(report dto.ReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %w", err)
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Time range", report.TimeRange},
		{"Since", report.Since},
		{"Generated at", report.GeneratedAt},
		{"Total revenue", report.Revenue.Total},
		{"Revenue growth (%)", report.Revenue.Growth},
		{"Total bookings", report.Bookings.Total},
		{"Occupancy rate (%)", report.Rooms.OccupancyRate},
		{"Total guests", report.Guests.Total},
		{"New guests", report.Guests.New},
		{"Returning guests", report.Guests.Returning},
		{"VIP guests", report.Guests.VIP},
	}

	monthly := [][]any{{"Month", "Revenue", "Bookings"}}
	revenue := make(map[string]float64, len(report.Revenue.Monthly))
	for _, m := range report.Revenue.Monthly {
		revenue[m.Month] = m.Amount
	}
	for _, m := range report.Bookings.Monthly {
		monthly = append(monthly, []any{m.Month, revenue[m.Month], m.Count})
	}

	rooms := [][]any{{"Room type", "Bookings", "Revenue"}}
	roomRevenue := make(map[string]float64, len(report.Rooms.Revenue))
	for _, r := range report.Rooms.Revenue {
		roomRevenue[r.RoomType] = r.Revenue
	}
	for _, r := range report.Rooms.Popular {
		rooms = append(rooms, []any{r.RoomType, r.Bookings, roomRevenue[r.RoomType]})
	}

	loyalty := [][]any{{"Tier", "Guests"}}
	for _, tier := range report.Guests.LoyaltyDistribution {
		loyalty = append(loyalty, []any{tier.Tier, tier.Count})
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{sheetSummary, summary},
		{sheetMonthly, monthly},
		{sheetRooms, rooms},
		{sheetLoyalty, loyalty},
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("error creating sheet %s: %w", sheet.name, err)
		}

		if i == 0 {
			f.SetActiveSheet(index)
		}

		if err := writeRows(f, sheet.name, sheet.rows, header); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("error resolving cell: %w", err)
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("error resolving cell: %w", err)
	}

	_ = f.SetCellStyle(sheet, "A1", last, header)
	_ = f.SetColWidth(sheet, "A", "A", 24)

	return nil
}
