package flgo

import (
	"context"
	"fmt"
	"log/slog"

	"riveros/internal/core"
)

// SyncPublisher announces a successful write so downstream consumers (the
// snapshot sync worker) can refresh their copy of the vessel's records.
type SyncPublisher interface {
	PublishRecordSync(ctx context.Context, vessel, recordID string) error
}

// RecordService orchestrates the repository, the record cache and the
// optional sync publisher. Publishing is best-effort: a submitted record is
// durable on the backend regardless of whether the event went out.
type RecordService struct {
	repo      *Repository
	cache     *RecordCache
	publisher SyncPublisher
}

func NewRecordService(repo *Repository, cache *RecordCache, publisher SyncPublisher) *RecordService {
	return &RecordService{repo: repo, cache: cache, publisher: publisher}
}

// Records returns the vessel scope's record set, fetching on first use.
func (s *RecordService) Records(ctx context.Context) ([]core.FlgoRecord, error) {
	return s.cache.EnsurePopulated(ctx)
}

// SubmitMeasurement creates a measurement entry and invalidates the cache.
func (s *RecordService) SubmitMeasurement(ctx context.Context, identity core.Identity, d core.RecordDraft) error {
	if err := s.repo.CreateMeasurement(ctx, identity, d); err != nil {
		return err
	}
	s.afterWrite(ctx, d.Vessel, "")
	return nil
}

// SubmitBunkering creates a bunkering entry and invalidates the cache.
func (s *RecordService) SubmitBunkering(ctx context.Context, identity core.Identity, d core.RecordDraft) error {
	if err := s.repo.CreateBunkering(ctx, identity, d); err != nil {
		return err
	}
	s.afterWrite(ctx, d.Vessel, "")
	return nil
}

// SubmitUpdate edits an existing entry in place and invalidates the cache.
func (s *RecordService) SubmitUpdate(ctx context.Context, identity core.Identity, recordID, entryType string, d core.RecordDraft) error {
	if err := s.repo.UpdateEntry(ctx, identity, recordID, entryType, d); err != nil {
		return err
	}
	s.afterWrite(ctx, d.Vessel, recordID)
	return nil
}

// Tanks proxies the tank reference lookup.
func (s *RecordService) Tanks(ctx context.Context, vessel string) ([]core.Tank, error) {
	return s.repo.ListTanks(ctx, vessel)
}

func (s *RecordService) afterWrite(ctx context.Context, vessel, recordID string) {
	s.cache.Invalidate()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordSync(ctx, vessel, recordID); err != nil {
		// The write already succeeded; log and move on.
		slog.ErrorContext(ctx, "Failed to publish record sync message",
			"vessel", vessel, "record_id", recordID, "error", fmt.Sprintf("%v", err))
	}
}
