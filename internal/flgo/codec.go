// Package flgo implements the record layer: the codec between the domain
// model and the backend's row/sub-row shape, the repository orchestrating
// reads and writes, and the vessel-scoped record cache.
package flgo

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"riveros/internal/core"
	"riveros/internal/ragic"
)

// EncodeRecord maps a draft onto the backend's header field map and subtable
// row map.
//
// Sub-row key assignment consults both conditions: the record must be an
// edit (editRecordID set) AND the entry must carry a SubRowID for the
// positive-key update path to apply. A brand-new record always gets negative
// keys for every sub-row, even when a tank still carries a cached id from a
// prior vessel. Negative numbering restarts per batch and only counts new
// rows.
func EncodeRecord(d core.RecordDraft, entryType string, identity core.Identity, editRecordID string) (map[string]string, map[string]map[string]map[string]string) {
	fuelFilter := core.FuelFilterAll
	if entryType == core.EntryBunkering {
		fuelFilter = d.FuelType
	}

	fields := map[string]string{
		ragic.FlgoDate:           d.Date,
		ragic.FlgoTime:           d.Time,
		ragic.FlgoEntryType:      entryType,
		ragic.FlgoFuelTypeFilter: fuelFilter,
		ragic.FlgoDoneBy:         identity.Name,
		ragic.FlgoAssignedTo:     d.Vessel,
		ragic.FlgoHeaderVessel:   d.Vessel,
	}

	isEdit := editRecordID != ""
	subRows := make(map[string]map[string]string, len(d.Tanks))
	negIdx := 0
	for _, tank := range d.Tanks {
		var key string
		if isEdit && tank.SubRowID != "" {
			key = tank.SubRowID
		} else {
			negIdx++
			key = strconv.Itoa(-negIdx)
		}

		row := map[string]string{
			ragic.FlgoSubVesselName:   d.Vessel,
			ragic.FlgoSubFuelType:     tank.FuelType,
			ragic.FlgoSubTankName:     tank.TankName,
			ragic.FlgoSubMaxCapacity:  tank.MaxCapacity,
			ragic.FlgoSubLastRob:      tank.LastRob,
			ragic.FlgoSubActualVolume: tank.ActualVolume,
		}
		if entryType == core.EntryBunkering {
			row[ragic.FlgoSubBunkeredVolume] = tank.BunkeredVolume
		}
		subRows[key] = row
	}

	return fields, map[string]map[string]map[string]string{
		ragic.FlgoSubTableID: subRows,
	}
}

// DecodeRecord projects one raw backend row into the domain shape. Decode is
// total: metadata keys are skipped, unknown fields ignored, absent fields
// become empty strings so downstream numeric parsing has one "missing"
// representation.
func DecodeRecord(rowID string, raw any) core.FlgoRecord {
	row, _ := raw.(map[string]any)

	rec := core.FlgoRecord{
		RecordID:         rowID,
		Date:             fieldString(row, ragic.FlgoDate),
		Time:             fieldString(row, ragic.FlgoTime),
		Vessel:           fieldString(row, ragic.FlgoHeaderVessel),
		EntryType:        fieldString(row, ragic.FlgoEntryType),
		PercentageFilled: fieldString(row, ragic.FlgoPercentageFilled),
		DoneBy:           fieldString(row, ragic.FlgoDoneBy),
		WaterTotal:       fieldString(row, ragic.FlgoWaterTotal),
		FuelTotal:        fieldString(row, ragic.FlgoFuelTotal),
		LubeTotal:        fieldString(row, ragic.FlgoLubeTotal),
		AdBlueTotal:      fieldString(row, ragic.FlgoAdBlueTotal),
	}

	sub, _ := row[ragic.SubtableKey(ragic.FlgoSubTableID)].(map[string]any)
	if len(sub) == 0 {
		return rec
	}

	keys := make([]string, 0, len(sub))
	for k := range sub {
		if strings.HasPrefix(k, ragic.MetaPrefix) {
			continue
		}
		keys = append(keys, k)
	}
	// Sub-row ids are positive integers; keep a stable numeric order.
	sort.Slice(keys, func(i, j int) bool { return subRowLess(keys[i], keys[j]) })

	rec.Tanks = make([]core.TankEntry, 0, len(keys))
	for _, k := range keys {
		t, _ := sub[k].(map[string]any)
		rec.Tanks = append(rec.Tanks, core.TankEntry{
			SubRowID:       k,
			TankName:       fieldString(t, ragic.FlgoSubTankName),
			FuelType:       fieldString(t, ragic.FlgoSubFuelType),
			MaxCapacity:    fieldString(t, ragic.FlgoSubMaxCapacity),
			LastRob:        fieldString(t, ragic.FlgoSubLastRob),
			ActualVolume:   fieldString(t, ragic.FlgoSubActualVolume),
			BunkeredVolume: fieldString(t, ragic.FlgoSubBunkeredVolume),
			ReportVolume:   fieldString(t, ragic.FlgoSubReportVolume),
		})
	}
	return rec
}

// DecodeRecords decodes every data row of a sheet response, skipping
// metadata keys. Row order from the backend is lost in the decoded map, so
// the repository re-sorts; here the output is ordered by row id for
// determinism.
func DecodeRecords(data map[string]any) []core.FlgoRecord {
	ids := make([]string, 0, len(data))
	for id, v := range data {
		if strings.HasPrefix(id, ragic.MetaPrefix) {
			continue
		}
		if _, ok := v.(map[string]any); !ok {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return subRowLess(ids[i], ids[j]) })

	out := make([]core.FlgoRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, DecodeRecord(id, data[id]))
	}
	return out
}

// DecodeTank projects one raw tanks-sheet row.
func DecodeTank(raw any) core.Tank {
	row, _ := raw.(map[string]any)
	return core.Tank{
		TankName:    fieldString(row, ragic.TankName),
		FuelType:    fieldString(row, ragic.TankFuelType),
		MaxCapacity: fieldString(row, ragic.TankMaxCapacity),
		LastRob:     fieldString(row, ragic.TankLastRob),
	}
}

// fieldString resolves a field id to its string value. Numbers keep their
// exact JSON representation; anything absent or unrecognized is "".
func fieldString(row map[string]any, fieldID string) string {
	if row == nil {
		return ""
	}
	v, ok := row[fieldID]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		// Arrays and nested objects have no field semantics here.
		return ""
	}
}

func subRowLess(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
