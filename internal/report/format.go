package report

import (
	"strings"
	"time"

	"riveros/internal/core"
)

// DisplayDate renders a normalized "YYYY-MM-DD" date as "DD.MM.YYYY" for
// report headers and cells. Anything else passes through unchanged.
func DisplayDate(iso string) string {
	parts := strings.Split(NormalizeDate(iso), "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "." + parts[1] + "." + parts[0]
}

// PeriodLabel renders the filter bounds for report metadata.
func PeriodLabel(f Filter) string {
	from := "All time"
	if f.DateFrom != "" {
		from = DisplayDate(f.DateFrom)
	}
	to := "Present"
	if f.DateTo != "" {
		to = DisplayDate(f.DateTo)
	}
	return from + " - " + to
}

// FuelLabel renders the fuel filter for report metadata.
func FuelLabel(f Filter) string {
	if f.FuelType == "" || f.FuelType == core.FuelFilterAll {
		return "All fuel types"
	}
	return f.FuelType
}

func generatedLabel(now time.Time) string {
	return "Generated: " + now.Format("02 Jan 2006")
}
