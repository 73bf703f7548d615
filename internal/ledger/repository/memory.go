package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	txns map[string]model.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{txns: make(map[string]model.Transaction)}
}

func (r *MemoryRepository) List(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Transaction{}
	for _, t := range r.txns {
		if f.ItemCode != "" && t.ItemCode != f.ItemCode {
			continue
		}
		if f.From != "" && t.Date < f.From {
			continue
		}
		if f.To != "" && t.Date > f.To {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) ListByItem(ctx context.Context, itemCode string) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Transaction{}
	for _, t := range r.txns {
		if t.ItemCode == itemCode {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, txn *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *txn
	if prev, ok := r.txns[txn.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	r.txns[txn.ID] = stored
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.txns, id)
	return nil
}
