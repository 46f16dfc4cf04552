package snapshot

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]Snapshot
	storeErr  error
	storeCall int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{items: make(map[uuid.UUID]Snapshot)}
}

func (r *RepositoryStub) Store(ctx context.Context, snapshot Snapshot) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeCall++
	if r.storeErr != nil {
		return uuid.Nil, r.storeErr
	}
	if snapshot.Id == uuid.Nil {
		snapshot.Id = uuid.New()
	}
	r.items[snapshot.Id] = snapshot
	return snapshot.Id, nil
}

func (r *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return s, nil
}

func (r *RepositoryStub) List(ctx context.Context, kind string, limit int) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Snapshot
	for _, s := range r.items {
		if kind == "" || s.Kind == kind {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].GeneratedAt.After(result[j].GeneratedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RepositoryStub) failStore(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErr = err
}

func (r *RepositoryStub) stored() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.storeCall
}
