package core

import "testing"

func TestRecordDraftValidate(t *testing.T) {
	good := RecordDraft{
		Date:   "2024-01-05",
		Time:   "08:30",
		Vessel: "MS Rhenus",
		Tanks:  []TankEntry{{TankName: "FW1", FuelType: "Fresh Water", ActualVolume: "120"}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		d    RecordDraft
		want error
	}{
		{"empty vessel", RecordDraft{Tanks: good.Tanks}, ErrEmptyVessel},
		{"blank vessel", RecordDraft{Vessel: "  ", Tanks: good.Tanks}, ErrEmptyVessel},
		{"no tanks", RecordDraft{Vessel: "MS Rhenus"}, ErrEmptyTanks},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.d.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRecordDraftValidateBunkering(t *testing.T) {
	d := RecordDraft{
		Vessel: "MS Rhenus",
		Tanks:  []TankEntry{{TankName: "GO1", FuelType: "Gasoil", BunkeredVolume: "500"}},
	}
	if err := d.ValidateBunkering(); err != ErrEmptyFuelType {
		t.Fatalf("got %v, want ErrEmptyFuelType", err)
	}
	d.FuelType = FuelFilterAll
	if err := d.ValidateBunkering(); err != ErrEmptyFuelType {
		t.Fatalf("ALL is not a valid bunkering fuel type, got %v", err)
	}
	d.FuelType = "Gasoil"
	if err := d.ValidateBunkering(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestIdentityScope(t *testing.T) {
	if !(Identity{}).IsZero() {
		t.Fatal("zero identity should report IsZero")
	}
	admin := Identity{Email: "ops@riveros.example", Name: "Ops"}
	if admin.IsZero() {
		t.Fatal("named identity should not be zero")
	}
	if !admin.IsAdmin() {
		t.Fatal("identity without vessel is admin scope")
	}
	crew := Identity{Email: "crew@riveros.example", Name: "Crew", Vessel: "MS Rhenus"}
	if crew.IsAdmin() {
		t.Fatal("identity with vessel is not admin scope")
	}
}
