package flgo

import (
	"context"
	"sync"

	"riveros/internal/core"
)

// ServiceRegistry hands out one RecordService per vessel so every vessel
// scope gets its own record cache. Services are created lazily and live for
// the life of the process.
type ServiceRegistry struct {
	repo      *Repository
	publisher SyncPublisher

	mu       sync.Mutex
	services map[string]*RecordService
}

func NewServiceRegistry(repo *Repository, publisher SyncPublisher) *ServiceRegistry {
	return &ServiceRegistry{
		repo:      repo,
		publisher: publisher,
		services:  make(map[string]*RecordService),
	}
}

// For returns the record service scoped to a vessel, creating it on first
// use. The empty vessel (admin scope) gets a service too; its repository
// calls short-circuit to empty results.
func (r *ServiceRegistry) For(vessel string) *RecordService {
	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.services[vessel]; ok {
		return svc
	}

	v := vessel
	cache := NewRecordCache(func(ctx context.Context) ([]core.FlgoRecord, error) {
		return r.repo.ListEntries(ctx, v)
	})
	svc := NewRecordService(r.repo, cache, r.publisher)
	r.services[vessel] = svc
	return svc
}
