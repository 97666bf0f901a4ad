package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

func newWorkbook(sheet, title, vessel string, f Filter, now time.Time) (*excelize.File, error) {
	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	label := vessel
	if label == "" {
		label = "-"
	}
	meta := [][]any{
		{title},
		{"Vessel", label},
		{"Period", PeriodLabel(f)},
		{"Fuel Type", FuelLabel(f)},
		{generatedLabel(now)},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write metadata: %w", err)
		}
	}

	titleStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "0E4A6E"},
	})
	if err != nil {
		return nil, err
	}
	if err := wb.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	return wb, nil
}

func headerStyle(wb *excelize.File) (int, error) {
	return wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "0E4A6E"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F1F5F9"}},
	})
}

// BarReportXLSX writes the time series as a plain data sheet.
func BarReportXLSX(points []SeriesPoint, f Filter, vessel string, now time.Time) ([]byte, error) {
	const sheet = "Bar Report"
	wb, err := newWorkbook(sheet, "FLGO - Bar Report", vessel, f, now)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	header := []any{"Date", "Measurement", "Bunkering", "Total"}
	if err := wb.SetSheetRow(sheet, "A7", &header); err != nil {
		return nil, err
	}
	hs, err := headerStyle(wb)
	if err != nil {
		return nil, err
	}
	if err := wb.SetCellStyle(sheet, "A7", "D7", hs); err != nil {
		return nil, err
	}

	for i, p := range points {
		cell, _ := excelize.CoordinatesToCellName(1, 8+i)
		row := []any{DisplayDate(p.Date), p.Measurement, p.Bunkering, p.Total}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := wb.SetColWidth(sheet, "A", "D", 16); err != nil {
		return nil, err
	}
	return workbookBytes(wb)
}

// FinalReportXLSX writes the pivot with tank columns and a closing totals row.
func FinalReportXLSX(p PivotTable, f Filter, vessel string, now time.Time) ([]byte, error) {
	const sheet = "Final Report"
	wb, err := newWorkbook(sheet, "FLGO - Final Report", vessel, f, now)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	header := make([]any, 0, len(p.TankNames)+2)
	header = append(header, "Date")
	for _, name := range p.TankNames {
		header = append(header, name)
	}
	header = append(header, "Total")
	if err := wb.SetSheetRow(sheet, "A7", &header); err != nil {
		return nil, err
	}

	hs, err := headerStyle(wb)
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 7)
	if err := wb.SetCellStyle(sheet, "A7", last, hs); err != nil {
		return nil, err
	}

	rowIdx := 8
	for _, row := range p.Rows {
		values := make([]any, 0, len(header))
		values = append(values, DisplayDate(row.Date))
		for _, name := range p.TankNames {
			values = append(values, row.Values[name])
		}
		values = append(values, row.Total)
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
		rowIdx++
	}

	totals := make([]any, 0, len(header))
	totals = append(totals, "Total")
	for _, name := range p.TankNames {
		totals = append(totals, p.Totals[name])
	}
	totals = append(totals, p.GrandTotal)
	cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
	if err := wb.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, err
	}
	lastTotal, _ := excelize.CoordinatesToCellName(len(header), rowIdx)
	if err := wb.SetCellStyle(sheet, cell, lastTotal, hs); err != nil {
		return nil, err
	}

	endCol, _ := excelize.ColumnNumberToName(len(header))
	if err := wb.SetColWidth(sheet, "A", endCol, 15); err != nil {
		return nil, err
	}
	return workbookBytes(wb)
}

func workbookBytes(wb *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
