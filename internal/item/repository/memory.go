package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/hotel-stock-service/internal/model"
)

// MemoryRepository keeps items in a map. Returned values are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]model.Item)}
}

func (r *MemoryRepository) List(ctx context.Context, kind model.ItemKind) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, it := range r.items {
		if kind != "" && it.Kind != kind {
			continue
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemCode < items[j].ItemCode })
	return items, nil
}

func (r *MemoryRepository) FindByCode(ctx context.Context, itemCode string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemCode]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, it *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.items[it.ItemCode]; ok {
		// created_at is kept from the first insert, as the SQL upsert does
		stored := *it
		stored.CreatedAt = prev.CreatedAt
		r.items[it.ItemCode] = stored
		return nil
	}
	r.items[it.ItemCode] = *it
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, itemCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, itemCode)
	return nil
}
