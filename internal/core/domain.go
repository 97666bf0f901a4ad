package core

import (
	"errors"
	"strings"
)

// Entry type discriminants as stored in the FLGO sheet.
const (
	EntryMeasurement = "Measurement"
	EntryBunkering   = "Bunkering"
)

// FuelFilterAll marks a whole-vessel measurement entry; bunkering entries
// carry the selected fuel type instead.
const FuelFilterAll = "ALL"

type (
	// Identity is the authenticated user as resolved from the users sheet.
	// An empty Vessel means administrator scope (no vessel restriction).
	Identity struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Vessel     string `json:"vessel"`
		VesselAbbr string `json:"vesselAbbr"`
	}

	// Tank is immutable reference data from the tanks sheet, identified by
	// name within a vessel.
	Tank struct {
		TankName    string `json:"tankName"`
		FuelType    string `json:"fuelType"`
		MaxCapacity string `json:"maxCapacity"`
		LastRob     string `json:"lastRob"`
	}

	// TankEntry is one sub-row of an FLGO record. SubRowID is set only when
	// the sub-row already exists on the backend; a draft sub-row leaves it
	// empty. BunkeredVolume is meaningful only on Bunkering entries.
	TankEntry struct {
		SubRowID       string `json:"subRowId,omitempty"`
		TankName       string `json:"tankName"`
		FuelType       string `json:"fuelType"`
		MaxCapacity    string `json:"maxCapacity"`
		LastRob        string `json:"lastRob"`
		ActualVolume   string `json:"actualVolume"`
		BunkeredVolume string `json:"bunkeredVolume"`
		ReportVolume   string `json:"reportVolume"`
	}

	// FlgoRecord is one header row of the FLGO sheet together with its
	// per-tank sub-rows. RecordID is backend-assigned and absent until the
	// first save. PercentageFilled and the per-category totals are formula
	// fields computed by the backend; they are carried verbatim and never
	// recomputed here (reports derive their own sums from ReportVolume).
	FlgoRecord struct {
		RecordID         string      `json:"recordId"`
		Date             string      `json:"date"`
		Time             string      `json:"time"`
		Vessel           string      `json:"vessel"`
		EntryType        string      `json:"entryType"`
		PercentageFilled string      `json:"percentageFilled"`
		DoneBy           string      `json:"doneBy"`
		WaterTotal       string      `json:"waterTotalVolume"`
		FuelTotal        string      `json:"fuelTotalVolume"`
		LubeTotal        string      `json:"lubeTotalVolume"`
		AdBlueTotal      string      `json:"adBlueTotalVolume"`
		Tanks            []TankEntry `json:"tanks"`
	}

	// RecordDraft is the client-side input for a create or update. FuelType
	// is required for bunkering only.
	RecordDraft struct {
		Date     string      `json:"date"`
		Time     string      `json:"time"`
		Vessel   string      `json:"vessel"`
		FuelType string      `json:"fuelType,omitempty"`
		Tanks    []TankEntry `json:"tanks"`
	}
)

var (
	ErrEmptyVessel   = errors.New("vessel is required")
	ErrEmptyTanks    = errors.New("at least one tank is required")
	ErrEmptyFuelType = errors.New("fuel type is required")
	ErrEmptyRecordID = errors.New("record id is required")
)

// IsZero reports whether no user is authenticated.
func (id Identity) IsZero() bool {
	return strings.TrimSpace(id.Email) == "" && strings.TrimSpace(id.Name) == ""
}

// IsAdmin reports administrator scope (no assigned vessel).
func (id Identity) IsAdmin() bool {
	return strings.TrimSpace(id.Vessel) == ""
}

// Validate enforces presence checks only; numeric plausibility is the
// backend's concern.
func (d RecordDraft) Validate() error {
	if strings.TrimSpace(d.Vessel) == "" {
		return ErrEmptyVessel
	}
	if len(d.Tanks) == 0 {
		return ErrEmptyTanks
	}
	return nil
}

// ValidateBunkering additionally requires a concrete fuel type; "ALL" is
// reserved for measurements.
func (d RecordDraft) ValidateBunkering() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.FuelType) == "" || d.FuelType == FuelFilterAll {
		return ErrEmptyFuelType
	}
	return nil
}
