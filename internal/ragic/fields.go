// Package ragic talks to the hosted tabular backend. All sheet paths and
// column identifiers live in this file; no other package may hard-code one.
package ragic

// Sheet paths, relative to the configured base URL.
const (
	SheetUsers   = "ragic-setup/1"
	SheetVessels = "masterdata/3"
	SheetTanks   = "masterdata/10"
	SheetFlgo    = "flgo/28"
)

// Users sheet (ragic-setup/1).
const (
	UserEmail          = "1"
	UserName           = "4"
	UserAssignedVessel = "1000191"
	UserVesselAbbr     = "1000543"
)

// Vessels sheet (masterdata/3).
const (
	VesselName = "1000064"
)

// Tanks sheet (masterdata/10).
const (
	TankVesselName  = "1022111"
	TankName        = "1000079"
	TankFuelType    = "1000078"
	TankMaxCapacity = "1000080"
	TankLastRob     = "1000795"
)

// FLGO sheet (flgo/28), header fields.
//
// FlgoHeaderVessel is the link field and the only valid filter target;
// FlgoAssignedTo is a load-from-link display mirror and is not queryable.
// FlgoPercentageFilled and the four category totals are formula fields:
// never sent on writes, recalculated server-side via doFormula=true.
const (
	FlgoDate             = "1008768"
	FlgoTime             = "1008771"
	FlgoEntryType        = "1008766"
	FlgoFuelTypeFilter   = "1008767"
	FlgoPercentageFilled = "1011855"
	FlgoDoneBy           = "1008761"
	FlgoAssignedTo       = "1008756"
	FlgoHeaderVessel     = "1008755"
	FlgoWaterTotal       = "1017880"
	FlgoFuelTotal        = "1017881"
	FlgoLubeTotal        = "1017882"
	FlgoAdBlueTotal      = "1017883"
)

// FLGO subtable container and column fields.
const (
	FlgoSubTableID = "1008797"

	FlgoSubVesselName     = "1008778"
	FlgoSubFuelType       = "1008779"
	FlgoSubTankName       = "1008780"
	FlgoSubMaxCapacity    = "1008781"
	FlgoSubLastRob        = "1008782"
	FlgoSubActualVolume   = "1008798"
	FlgoSubBunkeredVolume = "1008783"
	FlgoSubReportVolume   = "1017884"
)

// MetaPrefix marks backend metadata keys (row annotations, subtable
// containers). Any key with this prefix is skipped during field iteration.
const MetaPrefix = "_"

// SubtableKey returns the JSON key under which a subtable's rows nest.
func SubtableKey(subTableID string) string {
	return "_subtable_" + subTableID
}
