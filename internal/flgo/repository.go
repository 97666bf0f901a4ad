package flgo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"riveros/internal/core"
	"riveros/internal/ragic"
)

// listLimit caps a vessel listing; the portal never pages past this.
const listLimit = 200

// Gateway is the backend round-trip dependency of the repository.
type Gateway interface {
	FetchRows(ctx context.Context, sheetPath string, q ragic.Query) (map[string]any, error)
	WriteRow(ctx context.Context, sheetPath, rowID string, fields map[string]string, subtables map[string]map[string]map[string]string) (map[string]any, error)
}

// Repository implements the four FLGO domain operations plus the reference
// data lookups. It holds no record state itself; callers own their snapshot
// and replace it wholesale on refresh.
type Repository struct {
	gw Gateway
}

func NewRepository(gw Gateway) *Repository {
	return &Repository{gw: gw}
}

// CreateMeasurement submits a whole-vessel measurement entry. All tanks are
// expected to carry an actual volume; that is the caller's concern, not
// enforced here.
func (r *Repository) CreateMeasurement(ctx context.Context, identity core.Identity, d core.RecordDraft) error {
	if identity.IsZero() {
		return core.ErrUnauthorized
	}
	if err := d.Validate(); err != nil {
		return err
	}
	fields, subs := EncodeRecord(d, core.EntryMeasurement, identity, "")
	if _, err := r.gw.WriteRow(ctx, ragic.SheetFlgo, "", fields, subs); err != nil {
		return fmt.Errorf("create measurement: %w", err)
	}
	return nil
}

// CreateBunkering submits a single-fuel-type bunkering entry; the fuel
// filter carries the chosen fuel type, never "ALL".
func (r *Repository) CreateBunkering(ctx context.Context, identity core.Identity, d core.RecordDraft) error {
	if identity.IsZero() {
		return core.ErrUnauthorized
	}
	if err := d.ValidateBunkering(); err != nil {
		return err
	}
	fields, subs := EncodeRecord(d, core.EntryBunkering, identity, "")
	if _, err := r.gw.WriteRow(ctx, ragic.SheetFlgo, "", fields, subs); err != nil {
		return fmt.Errorf("create bunkering: %w", err)
	}
	return nil
}

// UpdateEntry re-submits an existing record in place. Tank entries carrying
// a SubRowID update their backend sub-rows; entries without one (added
// during the edit) still create new sub-rows via negative keys.
func (r *Repository) UpdateEntry(ctx context.Context, identity core.Identity, recordID, entryType string, d core.RecordDraft) error {
	if identity.IsZero() {
		return core.ErrUnauthorized
	}
	if strings.TrimSpace(recordID) == "" {
		return core.ErrEmptyRecordID
	}
	var err error
	if entryType == core.EntryBunkering {
		err = d.ValidateBunkering()
	} else {
		err = d.Validate()
	}
	if err != nil {
		return err
	}
	fields, subs := EncodeRecord(d, entryType, identity, recordID)
	if _, err := r.gw.WriteRow(ctx, ragic.SheetFlgo, recordID, fields, subs); err != nil {
		return fmt.Errorf("update entry %s: %w", recordID, err)
	}
	return nil
}

// ListEntries returns the vessel's records, newest first, capped at 200.
// Administrator scope (empty vessel) returns an empty slice without a
// backend call; cross-vessel listing is a deliberate extension point, not a
// default.
//
// The filter targets the vessel link field; the display mirror field is not
// indexed and cannot appear in a where clause.
func (r *Repository) ListEntries(ctx context.Context, vessel string) ([]core.FlgoRecord, error) {
	if strings.TrimSpace(vessel) == "" {
		return []core.FlgoRecord{}, nil
	}

	data, err := r.gw.FetchRows(ctx, ragic.SheetFlgo, ragic.Query{
		WhereField: ragic.FlgoHeaderVessel,
		WhereValue: vessel,
		SortField:  ragic.FlgoDate,
		Desc:       true,
		Limit:      listLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", vessel, err)
	}

	records := DecodeRecords(data)
	// The backend sorts the response, but JSON object order does not survive
	// decoding into a map; restore newest-first here.
	sort.SliceStable(records, func(i, j int) bool {
		di := strings.ReplaceAll(records[i].Date, "/", "-")
		dj := strings.ReplaceAll(records[j].Date, "/", "-")
		if di != dj {
			return di > dj
		}
		return subRowLess(records[j].RecordID, records[i].RecordID)
	})
	return records, nil
}

// ListTanks fetches the vessel's tank reference data, the prerequisite
// lookup before an entry form can open for a different vessel.
func (r *Repository) ListTanks(ctx context.Context, vessel string) ([]core.Tank, error) {
	if strings.TrimSpace(vessel) == "" {
		return nil, core.ErrEmptyVessel
	}
	data, err := r.gw.FetchRows(ctx, ragic.SheetTanks, ragic.Query{
		WhereField: ragic.TankVesselName,
		WhereValue: vessel,
	})
	if err != nil {
		return nil, fmt.Errorf("list tanks for %s: %w", vessel, err)
	}

	names := make([]string, 0, len(data))
	for id, v := range data {
		if strings.HasPrefix(id, ragic.MetaPrefix) {
			continue
		}
		if _, ok := v.(map[string]any); !ok {
			continue
		}
		names = append(names, id)
	}
	sort.Slice(names, func(i, j int) bool { return subRowLess(names[i], names[j]) })

	tanks := make([]core.Tank, 0, len(names))
	for _, id := range names {
		tanks = append(tanks, DecodeTank(data[id]))
	}
	return tanks, nil
}

// ListVessels returns all vessel names from master data, sorted.
func (r *Repository) ListVessels(ctx context.Context) ([]string, error) {
	data, err := r.gw.FetchRows(ctx, ragic.SheetVessels, ragic.Query{})
	if err != nil {
		return nil, fmt.Errorf("list vessels: %w", err)
	}

	var vessels []string
	for id, v := range data {
		if strings.HasPrefix(id, ragic.MetaPrefix) {
			continue
		}
		row, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if name := fieldString(row, ragic.VesselName); name != "" {
			vessels = append(vessels, name)
		}
	}
	sort.Strings(vessels)
	return vessels, nil
}
