package worker

import (
	"context"
	"fmt"
	"log/slog"

	"riveros/internal/amqp"
	"riveros/internal/core"
)

// Source is the backend slice the worker reads from.
type Source interface {
	ListEntries(ctx context.Context, vessel string) ([]core.FlgoRecord, error)
	ListTanks(ctx context.Context, vessel string) ([]core.Tank, error)
	ListVessels(ctx context.Context) ([]string, error)
}

// Store is the snapshot side the worker writes to.
type Store interface {
	SaveRecords(ctx context.Context, vessel string, records []core.FlgoRecord) error
	SaveTanks(ctx context.Context, vessel string, tanks []core.Tank) error
	SaveVessels(ctx context.Context, names []string) error
}

// SyncWorker refreshes the local snapshot from the backend whenever a
// record changes. Messages carry only the vessel, the worker re-reads
// everything for it so the snapshot never drifts from the backend.
type SyncWorker struct {
	source Source
	store  Store
}

func NewSyncWorker(source Source, store Store) *SyncWorker {
	return &SyncWorker{source: source, store: store}
}

// HandleSyncMessage processes a single record sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"message_id", msg.ID,
		"vessel", msg.Vessel,
		"record_id", msg.RecordID)

	if msg.Vessel == "" {
		slog.WarnContext(ctx, "Sync message without vessel, skipping", "message_id", msg.ID)
		return nil
	}

	return w.SyncVessel(ctx, msg.Vessel)
}

// SyncVessel re-reads a vessel's records and tanks and replaces the snapshot.
func (w *SyncWorker) SyncVessel(ctx context.Context, vessel string) error {
	records, err := w.source.ListEntries(ctx, vessel)
	if err != nil {
		return fmt.Errorf("list entries for %s: %w", vessel, err)
	}
	if err := w.store.SaveRecords(ctx, vessel, records); err != nil {
		return fmt.Errorf("save records for %s: %w", vessel, err)
	}

	tanks, err := w.source.ListTanks(ctx, vessel)
	if err != nil {
		return fmt.Errorf("list tanks for %s: %w", vessel, err)
	}
	if err := w.store.SaveTanks(ctx, vessel, tanks); err != nil {
		return fmt.Errorf("save tanks for %s: %w", vessel, err)
	}

	slog.InfoContext(ctx, "Vessel snapshot refreshed",
		"vessel", vessel,
		"records", len(records),
		"tanks", len(tanks))

	return nil
}

// SyncAll refreshes the vessel list and every vessel's snapshot. Used for
// the periodic full sweep between change messages.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	vessels, err := w.source.ListVessels(ctx)
	if err != nil {
		return fmt.Errorf("list vessels: %w", err)
	}
	if err := w.store.SaveVessels(ctx, vessels); err != nil {
		return fmt.Errorf("save vessels: %w", err)
	}

	for _, vessel := range vessels {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.SyncVessel(ctx, vessel); err != nil {
			// Keep sweeping the remaining vessels.
			slog.ErrorContext(ctx, "Vessel sync failed during sweep",
				"vessel", vessel,
				"error", err)
		}
	}

	return nil
}
