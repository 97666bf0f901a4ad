package flgo

import (
	"context"
	"errors"
	"testing"

	"riveros/internal/core"
)

type fakePublisher struct {
	calls []string
	err   error
}

func (p *fakePublisher) PublishRecordSync(_ context.Context, vessel, recordID string) error {
	p.calls = append(p.calls, vessel+"/"+recordID)
	return p.err
}

func newService(gw *fakeGateway, pub SyncPublisher) (*RecordService, *RecordCache) {
	repo := NewRepository(gw)
	cache := NewRecordCache(func(ctx context.Context) ([]core.FlgoRecord, error) {
		return repo.ListEntries(ctx, "MS Rhenus")
	})
	return NewRecordService(repo, cache, pub), cache
}

func TestSubmitInvalidatesCacheAndPublishes(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{}
	svc, cache := newService(gw, pub)
	ctx := context.Background()

	if _, err := svc.Records(ctx); err != nil {
		t.Fatal(err)
	}
	if cache.State() != CachePopulated {
		t.Fatal("records call must populate the cache")
	}

	if err := svc.SubmitMeasurement(ctx, testIdentity, draft()); err != nil {
		t.Fatalf("SubmitMeasurement: %v", err)
	}
	if cache.State() != CacheEmpty {
		t.Fatal("successful write must invalidate the cache")
	}
	if len(pub.calls) != 1 || pub.calls[0] != "MS Rhenus/" {
		t.Fatalf("publish calls = %v", pub.calls)
	}
}

func TestFailedWriteLeavesCacheIntact(t *testing.T) {
	gw := &fakeGateway{fetchData: map[string]any{"100": map[string]any{}}}
	pub := &fakePublisher{}
	svc, cache := newService(gw, pub)
	ctx := context.Background()

	before, err := svc.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}

	gw.writeErr = core.ErrBackendUnavailable
	if err := svc.SubmitBunkering(ctx, testIdentity, core.RecordDraft{
		Date: "2024-01-05", Vessel: "MS Rhenus", FuelType: "Gasoil",
		Tanks: []core.TankEntry{{TankName: "GO1", FuelType: "Gasoil", BunkeredVolume: "500"}},
	}); !errors.Is(err, core.ErrBackendUnavailable) {
		t.Fatalf("got %v, want ErrBackendUnavailable", err)
	}

	// Prior consistent state untouched: no invalidation, no publish, no
	// partial record anywhere.
	if cache.State() != CachePopulated {
		t.Fatal("failed write must not invalidate the cache")
	}
	after, _ := cache.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("record set changed on failure: %d -> %d", len(before), len(after))
	}
	if len(pub.calls) != 0 {
		t.Fatal("failed write must not publish a sync event")
	}
}

func TestPublishFailureIsNonFatal(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newService(gw, pub)

	// Publisher trouble never fails the submission.
	if err := svc.SubmitMeasurement(context.Background(), testIdentity, draft()); err != nil {
		t.Fatalf("SubmitMeasurement: %v", err)
	}
}

func TestSubmitUpdatePublishesRecordID(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{}
	svc, _ := newService(gw, pub)

	d := draft()
	d.Tanks[0].SubRowID = "77"
	if err := svc.SubmitUpdate(context.Background(), testIdentity, "1234", core.EntryMeasurement, d); err != nil {
		t.Fatalf("SubmitUpdate: %v", err)
	}
	if len(pub.calls) != 1 || pub.calls[0] != "MS Rhenus/1234" {
		t.Fatalf("publish calls = %v", pub.calls)
	}
}
