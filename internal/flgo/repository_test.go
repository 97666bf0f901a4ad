package flgo

import (
	"context"
	"errors"
	"testing"

	"riveros/internal/core"
	"riveros/internal/ragic"
)

type fakeGateway struct {
	fetchCalls []ragic.Query
	fetchSheet string
	fetchData  map[string]any
	fetchErr   error

	writeSheet  string
	writeRowID  string
	writeFields map[string]string
	writeSubs   map[string]map[string]map[string]string
	writeErr    error
	writeCalls  int
}

func (f *fakeGateway) FetchRows(_ context.Context, sheetPath string, q ragic.Query) (map[string]any, error) {
	f.fetchSheet = sheetPath
	f.fetchCalls = append(f.fetchCalls, q)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.fetchData == nil {
		return map[string]any{}, nil
	}
	return f.fetchData, nil
}

func (f *fakeGateway) WriteRow(_ context.Context, sheetPath, rowID string, fields map[string]string, subs map[string]map[string]map[string]string) (map[string]any, error) {
	f.writeCalls++
	f.writeSheet = sheetPath
	f.writeRowID = rowID
	f.writeFields = fields
	f.writeSubs = subs
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return map[string]any{"status": "SUCCESS"}, nil
}

func draft() core.RecordDraft {
	return core.RecordDraft{
		Date: "2024-01-05", Time: "08:30", Vessel: "MS Rhenus",
		Tanks: []core.TankEntry{{TankName: "FW1", FuelType: "Fresh Water", ActualVolume: "120"}},
	}
}

func TestCreateMeasurement(t *testing.T) {
	gw := &fakeGateway{}
	repo := NewRepository(gw)

	if err := repo.CreateMeasurement(context.Background(), testIdentity, draft()); err != nil {
		t.Fatalf("CreateMeasurement: %v", err)
	}
	if gw.writeSheet != ragic.SheetFlgo || gw.writeRowID != "" {
		t.Fatalf("write target = %q/%q, want create on flgo sheet", gw.writeSheet, gw.writeRowID)
	}
	if gw.writeFields[ragic.FlgoFuelTypeFilter] != core.FuelFilterAll {
		t.Fatalf("measurement fuel filter = %q, want ALL", gw.writeFields[ragic.FlgoFuelTypeFilter])
	}
}

func TestCreateValidation(t *testing.T) {
	gw := &fakeGateway{}
	repo := NewRepository(gw)
	ctx := context.Background()

	if err := repo.CreateMeasurement(ctx, core.Identity{}, draft()); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("no identity: got %v, want ErrUnauthorized", err)
	}

	d := draft()
	d.Vessel = ""
	if err := repo.CreateMeasurement(ctx, testIdentity, d); !errors.Is(err, core.ErrEmptyVessel) {
		t.Fatalf("empty vessel: got %v", err)
	}

	d = draft()
	d.Tanks = nil
	if err := repo.CreateMeasurement(ctx, testIdentity, d); !errors.Is(err, core.ErrEmptyTanks) {
		t.Fatalf("no tanks: got %v", err)
	}

	d = draft()
	if err := repo.CreateBunkering(ctx, testIdentity, d); !errors.Is(err, core.ErrEmptyFuelType) {
		t.Fatalf("bunkering without fuel type: got %v", err)
	}

	if gw.writeCalls != 0 {
		t.Fatalf("validation failures must not reach the backend, got %d writes", gw.writeCalls)
	}
}

func TestGatewayErrorsPropagate(t *testing.T) {
	gw := &fakeGateway{writeErr: core.ErrBackendRejected}
	repo := NewRepository(gw)

	err := repo.CreateMeasurement(context.Background(), testIdentity, draft())
	if !errors.Is(err, core.ErrBackendRejected) {
		t.Fatalf("got %v, want ErrBackendRejected", err)
	}
}

func TestUpdateEntryTargetsExistingRow(t *testing.T) {
	gw := &fakeGateway{}
	repo := NewRepository(gw)

	d := draft()
	d.Tanks[0].SubRowID = "77"
	if err := repo.UpdateEntry(context.Background(), testIdentity, "1234", core.EntryMeasurement, d); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if gw.writeRowID != "1234" {
		t.Fatalf("write row id = %q, want 1234", gw.writeRowID)
	}
	if _, ok := gw.writeSubs[ragic.FlgoSubTableID]["77"]; !ok {
		t.Fatal("existing sub-row id must be used as row key on update")
	}
}

func TestUpdateEntryRequiresRecordID(t *testing.T) {
	repo := NewRepository(&fakeGateway{})
	err := repo.UpdateEntry(context.Background(), testIdentity, " ", core.EntryMeasurement, draft())
	if !errors.Is(err, core.ErrEmptyRecordID) {
		t.Fatalf("got %v, want ErrEmptyRecordID", err)
	}
}

func TestListEntriesAdminScopeSkipsBackend(t *testing.T) {
	gw := &fakeGateway{}
	repo := NewRepository(gw)

	records, err := repo.ListEntries(context.Background(), "")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("admin scope must list empty, got %d", len(records))
	}
	if len(gw.fetchCalls) != 0 {
		t.Fatal("admin scope must never issue a backend call")
	}
}

func TestListEntriesQueryShape(t *testing.T) {
	gw := &fakeGateway{fetchData: map[string]any{
		"100": map[string]any{ragic.FlgoDate: "2024/01/05"},
		"101": map[string]any{ragic.FlgoDate: "2024/01/07"},
		"102": map[string]any{ragic.FlgoDate: "2024/01/06"},
	}}
	repo := NewRepository(gw)

	records, err := repo.ListEntries(context.Background(), "MS Rhenus")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	q := gw.fetchCalls[0]
	if q.WhereField != ragic.FlgoHeaderVessel {
		t.Errorf("filter field = %q, want the vessel link field %q", q.WhereField, ragic.FlgoHeaderVessel)
	}
	if q.WhereValue != "MS Rhenus" || q.SortField != ragic.FlgoDate || !q.Desc || q.Limit != 200 {
		t.Errorf("query = %+v", q)
	}
	if gw.fetchSheet != ragic.SheetFlgo {
		t.Errorf("sheet = %q", gw.fetchSheet)
	}

	// Newest first regardless of map iteration order.
	dates := []string{records[0].Date, records[1].Date, records[2].Date}
	want := []string{"2024/01/07", "2024/01/06", "2024/01/05"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("order = %v, want %v", dates, want)
		}
	}
}

func TestListTanks(t *testing.T) {
	gw := &fakeGateway{fetchData: map[string]any{
		"_meta": map[string]any{},
		"5": map[string]any{
			ragic.TankName:        "FW1",
			ragic.TankFuelType:    "Fresh Water",
			ragic.TankMaxCapacity: "1500",
			ragic.TankLastRob:     "320",
		},
	}}
	repo := NewRepository(gw)

	tanks, err := repo.ListTanks(context.Background(), "MS Rhenus")
	if err != nil {
		t.Fatalf("ListTanks: %v", err)
	}
	if len(tanks) != 1 {
		t.Fatalf("tanks = %d, want 1", len(tanks))
	}
	if tanks[0].TankName != "FW1" || tanks[0].LastRob != "320" {
		t.Fatalf("tank = %+v", tanks[0])
	}
	if gw.fetchCalls[0].WhereField != ragic.TankVesselName {
		t.Fatalf("tank filter field = %q", gw.fetchCalls[0].WhereField)
	}

	if _, err := repo.ListTanks(context.Background(), ""); !errors.Is(err, core.ErrEmptyVessel) {
		t.Fatalf("empty vessel: got %v", err)
	}
}

func TestListVessels(t *testing.T) {
	gw := &fakeGateway{fetchData: map[string]any{
		"1": map[string]any{ragic.VesselName: "MS Rhenus"},
		"2": map[string]any{ragic.VesselName: "MS Arcona"},
		"3": map[string]any{},
	}}
	repo := NewRepository(gw)

	vessels, err := repo.ListVessels(context.Background())
	if err != nil {
		t.Fatalf("ListVessels: %v", err)
	}
	if len(vessels) != 2 || vessels[0] != "MS Arcona" || vessels[1] != "MS Rhenus" {
		t.Fatalf("vessels = %v", vessels)
	}
}
