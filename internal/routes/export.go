package routes

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const analyticsSheet = "Analytics"

var analyticsHeader = []interface{}{"ID", "Date", "Client", "Driver", "Status"}

// WriteAnalyticsWorkbook renders the report as an XLSX workbook with a
// summary block above the item table.
func WriteAnalyticsWorkbook(w io.Writer, report *AnalyticsReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", analyticsSheet); err != nil {
		return err
	}

	from := "-"
	if report.From != nil {
		from = report.From.String()
	}
	summary := [][]interface{}{
		{"Period", string(report.Period)},
		{"From", from},
		{"Total", report.Total},
		{"Delivered", report.Delivered},
		{"Failed", report.Failed},
	}
	row := 1
	for _, values := range summary {
		if err := setRow(f, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	headerRow := row
	if err := setRow(f, headerRow, analyticsHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(analyticsHeader), headerRow)
	if err := f.SetCellStyle(analyticsSheet, first, last, bold); err != nil {
		return err
	}

	for _, item := range report.Items {
		row++
		values := []interface{}{item.ID.String(), item.Date.String(), item.Client, item.Driver, item.Status}
		if err := setRow(f, row, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(analyticsSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(analyticsSheet, "B", "E", 18); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(analyticsSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
