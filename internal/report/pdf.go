package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"riveros/internal/core"
)

// Landscape A4 layout shared by both reports.
const (
	pageMargin = 14.0
	headerH    = 44.0
)

func newReportPDF(title string, vessel string, f Filter, now time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(14, 74, 110)
	pdf.Text(pageMargin, 15, title)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(71, 85, 105)
	label := vessel
	if label == "" {
		label = "-"
	}
	pdf.Text(pageMargin, 24, "Vessel:      "+label)
	pdf.Text(pageMargin, 30, "Period:      "+PeriodLabel(f))
	pdf.Text(pageMargin, 36, "Fuel Type:  "+FuelLabel(f))

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.Text(pageW-70, 36, generatedLabel(now))

	pdf.SetDrawColor(14, 74, 110)
	pdf.SetLineWidth(0.5)
	pdf.Line(pageMargin, 41, pageW-pageMargin, 41)
	return pdf
}

func footer(pdf *fpdf.Fpdf) {
	_, pageH := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.Text(pageMargin, pageH-5, "RIVEROS - River Operating System")
}

// BarReportPDF renders the time series as a stacked bar chart with a data
// table underneath.
func BarReportPDF(points []SeriesPoint, f Filter, vessel string, now time.Time) ([]byte, error) {
	pdf := newReportPDF("FLGO - Bar Report", vessel, f, now)
	pageW, pageH := pdf.GetPageSize()

	if len(points) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(100, 116, 139)
		pdf.Text(pageMargin, headerH+12, "No data for selected filters")
		footer(pdf)
		return pdfBytes(pdf)
	}

	// Chart area above the data table.
	chartTop := headerH + 4
	chartH := 80.0
	chartW := pageW - 2*pageMargin
	maxTotal := int64(1)
	for _, p := range points {
		if p.Total > maxTotal {
			maxTotal = p.Total
		}
	}

	barGap := 2.0
	barW := chartW/float64(len(points)) - barGap
	if barW > 14 {
		barW = 14
	}
	x := pageMargin
	baseline := chartTop + chartH
	for _, p := range points {
		mH := chartH * float64(p.Measurement) / float64(maxTotal)
		bH := chartH * float64(p.Bunkering) / float64(maxTotal)

		pdf.SetFillColor(59, 130, 246) // measurement
		pdf.Rect(x, baseline-mH, barW, mH, "F")
		pdf.SetFillColor(34, 197, 94) // bunkering
		pdf.Rect(x, baseline-mH-bH, barW, bH, "F")

		if p.Total > 0 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(51, 65, 85)
			pdf.Text(x, baseline-mH-bH-1, core.FormatVolume(p.Total))
		}
		x += barW + barGap
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Line(pageMargin, baseline, pageMargin+chartW, baseline)

	// Legend.
	legendY := baseline + 5
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(51, 65, 85)
	pdf.SetFillColor(59, 130, 246)
	pdf.Rect(pageMargin, legendY-2.5, 3, 3, "F")
	pdf.Text(pageMargin+4, legendY, "Measurement")
	pdf.SetFillColor(34, 197, 94)
	pdf.Rect(pageMargin+34, legendY-2.5, 3, 3, "F")
	pdf.Text(pageMargin+38, legendY, "Bunkering")

	// Data table.
	cols := []string{"Date", "Measurement", "Bunkering", "Total"}
	widths := []float64{34, 40, 40, 40}
	y := legendY + 8
	rowH := 6.0

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(241, 245, 249)
		pdf.SetTextColor(14, 74, 110)
		cx := pageMargin
		for i, col := range cols {
			pdf.Rect(cx, y, widths[i], rowH, "F")
			pdf.Text(cx+1.5, y+rowH/2+1.2, col)
			cx += widths[i]
		}
		y += rowH
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(15, 23, 42)
	for _, p := range points {
		if y+rowH > pageH-pageMargin {
			footer(pdf)
			pdf.AddPage()
			y = pageMargin
			drawHeader()
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(15, 23, 42)
		}
		cells := []string{
			DisplayDate(p.Date),
			core.FormatVolume(p.Measurement),
			core.FormatVolume(p.Bunkering),
			core.FormatVolume(p.Total),
		}
		cx := pageMargin
		for i, cell := range cells {
			pdf.Text(cx+1.5, y+rowH/2+1.2, cell)
			cx += widths[i]
		}
		y += rowH
	}

	footer(pdf)
	return pdfBytes(pdf)
}

// FinalReportPDF renders the pivot as a paged table closed by a totals row.
func FinalReportPDF(p PivotTable, f Filter, vessel string, now time.Time) ([]byte, error) {
	pdf := newReportPDF("FLGO - Final Report", vessel, f, now)
	pageW, pageH := pdf.GetPageSize()

	if len(p.Rows) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(100, 116, 139)
		pdf.Text(pageMargin, headerH+12, "No data for selected filters")
		footer(pdf)
		return pdfBytes(pdf)
	}

	rowH := 7.0
	totalsH := 9.0
	tableW := pageW - 2*pageMargin
	dateW := 28.0
	totalW := 26.0
	tankW := (tableW - dateW - totalW) / float64(len(p.TankNames))

	cols := append(append([]string{"Date"}, p.TankNames...), "Total")
	widths := make([]float64, 0, len(cols))
	widths = append(widths, dateW)
	for range p.TankNames {
		widths = append(widths, tankW)
	}
	widths = append(widths, totalW)

	y := headerH
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 7.5)
		pdf.SetFillColor(241, 245, 249)
		pdf.SetTextColor(14, 74, 110)
		cx := pageMargin
		for i, col := range cols {
			pdf.Rect(cx, y, widths[i], rowH, "F")
			pdf.Text(cx+1.2, y+rowH/2+1.2, col)
			cx += widths[i]
		}
		y += rowH
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 7.5)
	pdf.SetTextColor(15, 23, 42)
	for _, row := range p.Rows {
		// Page break leaves room for the trailing totals row.
		if y+rowH+totalsH > pageH-pageMargin {
			footer(pdf)
			pdf.AddPage()
			y = pageMargin
			drawHeader()
			pdf.SetFont("Helvetica", "", 7.5)
			pdf.SetTextColor(15, 23, 42)
		}

		cx := pageMargin
		pdf.Text(cx+1.2, y+rowH/2+1.2, DisplayDate(row.Date))
		cx += dateW
		for _, name := range p.TankNames {
			val := core.FormatVolume(row.Values[name])
			pdf.Text(cx+tankW-1.2-pdf.GetStringWidth(val), y+rowH/2+1.2, val)
			cx += tankW
		}
		val := core.FormatVolume(row.Total)
		pdf.Text(cx+totalW-1.2-pdf.GetStringWidth(val), y+rowH/2+1.2, val)
		y += rowH
	}

	if y+totalsH > pageH-pageMargin {
		footer(pdf)
		pdf.AddPage()
		y = pageMargin
	}

	pdf.SetDrawColor(14, 74, 110)
	pdf.SetLineWidth(0.4)
	pdf.Line(pageMargin, y, pageMargin+tableW, y)
	pdf.SetFillColor(226, 232, 240)
	pdf.Rect(pageMargin, y, tableW, totalsH, "F")

	pdf.SetFont("Helvetica", "B", 7.5)
	pdf.SetTextColor(14, 74, 110)
	cx := pageMargin
	pdf.Text(cx+1.2, y+totalsH/2+1.2, "Total")
	cx += dateW
	for _, name := range p.TankNames {
		val := core.FormatVolume(p.Totals[name])
		pdf.Text(cx+tankW-1.2-pdf.GetStringWidth(val), y+totalsH/2+1.2, val)
		cx += tankW
	}
	val := core.FormatVolume(p.GrandTotal)
	pdf.Text(cx+totalW-1.2-pdf.GetStringWidth(val), y+totalsH/2+1.2, val)

	footer(pdf)
	return pdfBytes(pdf)
}

func pdfBytes(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
