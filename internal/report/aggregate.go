// Package report derives the two FLGO report views from an in-memory record
// snapshot: the per-date measurement/bunkering time series and the
// per-date-per-tank pivot. Everything here is pure; rendering to PDF or XLSX
// lives in separate files.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"riveros/internal/core"
)

// Filter narrows a record snapshot. Zero values mean "no restriction".
// Dates accept either separator convention; they are normalized before
// comparison.
type Filter struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	FuelType string `json:"fuelType"`
	Vessel   string `json:"vessel"`
}

// SeriesPoint is one chart bar: both component sums and their total, each
// rounded independently from the unrounded sums.
type SeriesPoint struct {
	Date        string `json:"date"`
	Measurement int64  `json:"measurement"`
	Bunkering   int64  `json:"bunkering"`
	Total       int64  `json:"total"`
}

// PivotRow is one date row of the final report. Values carries an entry for
// every discovered tank name, zero when the tank is absent on that date.
type PivotRow struct {
	Date   string           `json:"date"`
	Values map[string]int64 `json:"values"`
	Total  int64            `json:"total"`
}

// PivotTable is the final report: per-date rows plus per-tank column totals
// and a grand total.
type PivotTable struct {
	TankNames  []string         `json:"tankNames"`
	Rows       []PivotRow       `json:"rows"`
	Totals     map[string]int64 `json:"totals"`
	GrandTotal int64            `json:"grandTotal"`
}

// NormalizeDate maps the backend's "YYYY/MM/DD" onto the filter input form
// "YYYY-MM-DD". Idempotent; the canonical form is fixed-width and
// most-significant-first, so plain string comparison orders it correctly.
func NormalizeDate(d string) string {
	return strings.ReplaceAll(d, "/", "-")
}

// fuel returns the active fuel restriction; the "ALL" sentinel means none.
func (f Filter) fuel() string {
	if f.FuelType == core.FuelFilterAll {
		return ""
	}
	return f.FuelType
}

// FilterRecords keeps records passing every active restriction. The
// conditions are independent, so application order cannot matter.
func FilterRecords(records []core.FlgoRecord, f Filter) []core.FlgoRecord {
	from := NormalizeDate(f.DateFrom)
	to := NormalizeDate(f.DateTo)
	fuel := f.fuel()

	out := make([]core.FlgoRecord, 0, len(records))
	for _, r := range records {
		d := NormalizeDate(r.Date)
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		if fuel != "" && !hasFuelType(r, fuel) {
			continue
		}
		if f.Vessel != "" && r.Vessel != f.Vessel {
			continue
		}
		out = append(out, r)
	}
	return out
}

// TimeSeries groups the filtered records by normalized date and sums the
// sub-row report volumes, measurement and bunkering separately. With an
// active fuel filter only matching sub-rows count. Points come out ascending
// by date.
func TimeSeries(records []core.FlgoRecord, f Filter) []SeriesPoint {
	type sums struct {
		measurement decimal.Decimal
		bunkering   decimal.Decimal
	}

	fuel := f.fuel()
	byDate := make(map[string]*sums)
	for _, r := range FilterRecords(records, f) {
		key := NormalizeDate(r.Date)
		entry, ok := byDate[key]
		if !ok {
			entry = &sums{}
			byDate[key] = entry
		}

		total := decimal.Zero
		for _, t := range r.Tanks {
			if fuel != "" && t.FuelType != fuel {
				continue
			}
			total = total.Add(core.ParseVolume(t.ReportVolume))
		}

		if r.EntryType == core.EntryMeasurement {
			entry.measurement = entry.measurement.Add(total)
		} else {
			entry.bunkering = entry.bunkering.Add(total)
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]SeriesPoint, 0, len(dates))
	for _, d := range dates {
		s := byDate[d]
		// Each displayed value rounds from the unrounded sums; in particular
		// the total is round(m+b), not round(m)+round(b).
		points = append(points, SeriesPoint{
			Date:        d,
			Measurement: core.RoundVolume(s.measurement),
			Bunkering:   core.RoundVolume(s.bunkering),
			Total:       core.RoundVolume(s.measurement.Add(s.bunkering)),
		})
	}
	return points
}

// Pivot builds the final report table. The column set is the distinct tank
// names appearing in the filtered records (fuel-filter restricted); every
// row carries every column, zero when that tank has no qualifying sub-row on
// the date.
func Pivot(records []core.FlgoRecord, f Filter) PivotTable {
	filtered := FilterRecords(records, f)
	fuel := f.fuel()

	tankSet := make(map[string]struct{})
	for _, r := range filtered {
		for _, t := range r.Tanks {
			if fuel != "" && t.FuelType != fuel {
				continue
			}
			tankSet[t.TankName] = struct{}{}
		}
	}
	tankNames := make([]string, 0, len(tankSet))
	for n := range tankSet {
		tankNames = append(tankNames, n)
	}
	sort.Strings(tankNames)

	byDate := make(map[string]map[string]decimal.Decimal)
	for _, r := range filtered {
		key := NormalizeDate(r.Date)
		entry, ok := byDate[key]
		if !ok {
			entry = make(map[string]decimal.Decimal)
			byDate[key] = entry
		}
		for _, t := range r.Tanks {
			if fuel != "" && t.FuelType != fuel {
				continue
			}
			entry[t.TankName] = entry[t.TankName].Add(core.ParseVolume(t.ReportVolume))
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	colTotals := make(map[string]decimal.Decimal, len(tankNames))
	rows := make([]PivotRow, 0, len(dates))
	for _, d := range dates {
		vals := make(map[string]int64, len(tankNames))
		rowSum := decimal.Zero
		for _, name := range tankNames {
			v := byDate[d][name] // zero decimal when absent
			vals[name] = core.RoundVolume(v)
			rowSum = rowSum.Add(v)
			colTotals[name] = colTotals[name].Add(v)
		}
		rows = append(rows, PivotRow{Date: d, Values: vals, Total: core.RoundVolume(rowSum)})
	}

	totals := make(map[string]int64, len(tankNames))
	grand := decimal.Zero
	for _, name := range tankNames {
		totals[name] = core.RoundVolume(colTotals[name])
		grand = grand.Add(colTotals[name])
	}

	return PivotTable{
		TankNames:  tankNames,
		Rows:       rows,
		Totals:     totals,
		GrandTotal: core.RoundVolume(grand),
	}
}

// FuelTypes returns the distinct sub-row fuel types of a snapshot, sorted;
// the report filter dropdowns are built from it.
func FuelTypes(records []core.FlgoRecord) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for _, t := range r.Tanks {
			if t.FuelType != "" {
				set[t.FuelType] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for ft := range set {
		out = append(out, ft)
	}
	sort.Strings(out)
	return out
}

func hasFuelType(r core.FlgoRecord, fuelType string) bool {
	for _, t := range r.Tanks {
		if t.FuelType == fuelType {
			return true
		}
	}
	return false
}
