package report

import (
	"testing"
	"time"
)

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-07", "07.03.2025"},
		{"2025/03/07", "07.03.2025"},
		{"", ""},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := DisplayDate(tt.in); got != tt.want {
			t.Errorf("DisplayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want string
	}{
		{"no bounds", Filter{}, "All time - Present"},
		{"both bounds", Filter{DateFrom: "2025-01-01", DateTo: "2025-01-31"}, "01.01.2025 - 31.01.2025"},
		{"from only", Filter{DateFrom: "2025-01-01"}, "01.01.2025 - Present"},
		{"to only", Filter{DateTo: "2025-01-31"}, "All time - 31.01.2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodLabel(tt.f); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFuelLabel(t *testing.T) {
	if got := FuelLabel(Filter{}); got != "All fuel types" {
		t.Errorf("empty filter: got %q", got)
	}
	if got := FuelLabel(Filter{FuelType: "ALL"}); got != "All fuel types" {
		t.Errorf("ALL filter: got %q", got)
	}
	if got := FuelLabel(Filter{FuelType: "Diesel"}); got != "Diesel" {
		t.Errorf("named filter: got %q", got)
	}
}

func TestBarReportPDFRenders(t *testing.T) {
	points := []SeriesPoint{
		{Date: "2025-01-01", Measurement: 100, Bunkering: 50, Total: 150},
		{Date: "2025-01-02", Measurement: 30, Bunkering: 0, Total: 30},
	}
	out, err := BarReportPDF(points, Filter{}, "MV Test", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty pdf output")
	}
}

func TestFinalReportPDFEmpty(t *testing.T) {
	out, err := FinalReportPDF(PivotTable{}, Filter{}, "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty pdf output")
	}
}

func TestFinalReportXLSXRenders(t *testing.T) {
	p := PivotTable{
		TankNames: []string{"Tank A", "Tank B"},
		Rows: []PivotRow{
			{Date: "2025-01-01", Values: map[string]int64{"Tank A": 10, "Tank B": 0}, Total: 10},
		},
		Totals:     map[string]int64{"Tank A": 10, "Tank B": 0},
		GrandTotal: 10,
	}
	out, err := FinalReportXLSX(p, Filter{}, "MV Test", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty workbook output")
	}
}
