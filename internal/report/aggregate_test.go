package report

import (
	"reflect"
	"testing"

	"riveros/internal/core"
)

func rec(id, date, entryType, vessel string, tanks ...core.TankEntry) core.FlgoRecord {
	return core.FlgoRecord{RecordID: id, Date: date, EntryType: entryType, Vessel: vessel, Tanks: tanks}
}

func tank(name, fuelType, reportVolume string) core.TankEntry {
	return core.TankEntry{TankName: name, FuelType: fuelType, ReportVolume: reportVolume}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2024/01/05", "2024-01-05"},
		{"2024-01-05", "2024-01-05"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	// Idempotent: both representations of the same day normalize equally.
	if NormalizeDate("2024/01/05") != NormalizeDate("2024-01-05") {
		t.Fatal("normalization must unify both separator conventions")
	}
	if NormalizeDate(NormalizeDate("2024/01/05")) != NormalizeDate("2024/01/05") {
		t.Fatal("normalization must be idempotent")
	}
}

func testRecords() []core.FlgoRecord {
	return []core.FlgoRecord{
		rec("1", "2024/01/01", core.EntryMeasurement, "MS Rhenus",
			tank("A", "Gasoil", "100"), tank("B", "Fresh Water", "50")),
		rec("2", "2024/01/02", core.EntryBunkering, "MS Rhenus",
			tank("B", "Fresh Water", "20")),
		rec("3", "2024/01/03", core.EntryMeasurement, "MS Arcona",
			tank("C", "Gasoil", "75")),
	}
}

func TestFilterConjunctiveAndCommutative(t *testing.T) {
	records := testRecords()

	full := Filter{DateFrom: "2024-01-01", DateTo: "2024/01/02", FuelType: "Fresh Water", Vessel: "MS Rhenus"}
	got := FilterRecords(records, full)
	if len(got) != 2 {
		t.Fatalf("filtered = %d, want 2", len(got))
	}

	// Applying the restrictions one at a time, in any order, survives the
	// same set.
	orders := [][]Filter{
		{{DateFrom: full.DateFrom}, {DateTo: full.DateTo}, {FuelType: full.FuelType}, {Vessel: full.Vessel}},
		{{Vessel: full.Vessel}, {FuelType: full.FuelType}, {DateTo: full.DateTo}, {DateFrom: full.DateFrom}},
		{{FuelType: full.FuelType}, {DateFrom: full.DateFrom}, {Vessel: full.Vessel}, {DateTo: full.DateTo}},
	}
	for i, steps := range orders {
		stepwise := records
		for _, f := range steps {
			stepwise = FilterRecords(stepwise, f)
		}
		if !reflect.DeepEqual(stepwise, got) {
			t.Fatalf("order %d: stepwise filtering diverged", i)
		}
	}
}

func TestFilterMixedDateSeparators(t *testing.T) {
	records := testRecords()
	// Record dates use "/" while the bounds use "-"; both must normalize.
	got := FilterRecords(records, Filter{DateFrom: "2024-01-02", DateTo: "2024-01-03"})
	if len(got) != 2 {
		t.Fatalf("filtered = %d, want 2", len(got))
	}
}

func TestTimeSeriesSameDateSums(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/05", core.EntryMeasurement, "MS Rhenus",
			tank("A", "Gasoil", "100"), tank("B", "Gasoil", "50")),
		rec("2", "2024-01-05", core.EntryBunkering, "MS Rhenus",
			tank("A", "Gasoil", "30")),
	}

	points := TimeSeries(records, Filter{})
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1 (same normalized date)", len(points))
	}
	p := points[0]
	if p.Date != "2024-01-05" || p.Measurement != 150 || p.Bunkering != 30 || p.Total != 180 {
		t.Fatalf("point = %+v, want {2024-01-05 150 30 180}", p)
	}
}

func TestTimeSeriesFuelFilterRestrictsSubRows(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/05", core.EntryMeasurement, "MS Rhenus",
			tank("A", "Gasoil", "100"), tank("B", "Fresh Water", "50")),
	}
	points := TimeSeries(records, Filter{FuelType: "Gasoil"})
	if points[0].Measurement != 100 {
		t.Fatalf("measurement = %d, want 100 (non-matching sub-rows excluded)", points[0].Measurement)
	}
}

func TestTimeSeriesAllSentinelMeansNoFuelFilter(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/05", core.EntryMeasurement, "MS Rhenus",
			tank("A", "Gasoil", "100"), tank("B", "Fresh Water", "50")),
	}
	points := TimeSeries(records, Filter{FuelType: core.FuelFilterAll})
	if points[0].Measurement != 150 {
		t.Fatalf("measurement = %d, want 150 (ALL keeps every sub-row)", points[0].Measurement)
	}
}

func TestTimeSeriesNonNumericCountsAsZero(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/05", core.EntryMeasurement, "MS Rhenus",
			tank("A", "Gasoil", "n/a"), tank("B", "Gasoil", ""), tank("C", "Gasoil", "40")),
	}
	points := TimeSeries(records, Filter{})
	if points[0].Measurement != 40 {
		t.Fatalf("measurement = %d, want 40", points[0].Measurement)
	}
}

func TestTimeSeriesRoundsFromUnroundedSums(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/05", core.EntryMeasurement, "MS Rhenus", tank("A", "Gasoil", "0.4")),
		rec("2", "2024/01/05", core.EntryBunkering, "MS Rhenus", tank("A", "Gasoil", "0.4")),
	}
	p := TimeSeries(records, Filter{})[0]
	// round(0.4)=0 twice, but round(0.8)=1: total comes from the unrounded sum.
	if p.Measurement != 0 || p.Bunkering != 0 || p.Total != 1 {
		t.Fatalf("point = %+v, want {0 0 1}", p)
	}
}

func TestTimeSeriesSortedAscending(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024/01/07", core.EntryMeasurement, "V", tank("A", "G", "1")),
		rec("2", "2024/01/05", core.EntryMeasurement, "V", tank("A", "G", "1")),
		rec("3", "2024/01/06", core.EntryMeasurement, "V", tank("A", "G", "1")),
	}
	points := TimeSeries(records, Filter{})
	want := []string{"2024-01-05", "2024-01-06", "2024-01-07"}
	for i := range want {
		if points[i].Date != want[i] {
			t.Fatalf("dates out of order: %+v", points)
		}
	}
}

func TestTimeSeriesEmpty(t *testing.T) {
	if points := TimeSeries(nil, Filter{}); len(points) != 0 {
		t.Fatalf("empty input must yield empty series, got %d", len(points))
	}
	records := testRecords()
	if points := TimeSeries(records, Filter{Vessel: "no such vessel"}); len(points) != 0 {
		t.Fatalf("fully filtered input must yield empty series, got %d", len(points))
	}
}

func TestPivotFillsAbsentTanksWithZero(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024-01-01", core.EntryMeasurement, "V", tank("A", "Gasoil", "40")),
		rec("2", "2024-01-02", core.EntryMeasurement, "V", tank("B", "Gasoil", "20")),
	}

	p := Pivot(records, Filter{})
	if !reflect.DeepEqual(p.TankNames, []string{"A", "B"}) {
		t.Fatalf("tank names = %v", p.TankNames)
	}
	if len(p.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(p.Rows))
	}
	second := p.Rows[1]
	if second.Date != "2024-01-02" {
		t.Fatalf("row order wrong: %+v", p.Rows)
	}
	// Tank A is absent on the second date: present with value 0, not omitted.
	if v, ok := second.Values["A"]; !ok || v != 0 {
		t.Fatalf("row 2 values = %v, want A present as 0", second.Values)
	}
	if second.Values["B"] != 20 {
		t.Fatalf("row 2 B = %d, want 20", second.Values["B"])
	}
	if p.Totals["A"] != 40 || p.Totals["B"] != 20 || p.GrandTotal != 60 {
		t.Fatalf("totals = %v grand = %d", p.Totals, p.GrandTotal)
	}
}

func TestPivotFuelFilterShrinksColumns(t *testing.T) {
	records := []core.FlgoRecord{
		rec("1", "2024-01-01", core.EntryMeasurement, "V",
			tank("A", "Gasoil", "40"), tank("W", "Fresh Water", "500")),
	}
	p := Pivot(records, Filter{FuelType: "Gasoil"})
	if !reflect.DeepEqual(p.TankNames, []string{"A"}) {
		t.Fatalf("tank names = %v, want [A]", p.TankNames)
	}
	if p.GrandTotal != 40 {
		t.Fatalf("grand total = %d, want 40", p.GrandTotal)
	}
}

func TestPivotEmpty(t *testing.T) {
	p := Pivot(nil, Filter{})
	if len(p.TankNames) != 0 || len(p.Rows) != 0 || p.GrandTotal != 0 {
		t.Fatalf("empty input must yield an empty table: %+v", p)
	}
}

func TestPivotIdempotent(t *testing.T) {
	records := testRecords()
	first := Pivot(records, Filter{})
	second := Pivot(records, Filter{})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("pivot must be deterministic on an unmodified snapshot")
	}
}

func TestFuelTypes(t *testing.T) {
	got := FuelTypes(testRecords())
	want := []string{"Fresh Water", "Gasoil"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fuel types = %v, want %v", got, want)
	}
}
