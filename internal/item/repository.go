package item

import (
	"context"

	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
)

// Repository is the record store for the items table.
type Repository interface {
	// List returns items of kind, or all items when kind is empty, ordered by code.
	List(ctx context.Context, kind model.ItemKind) ([]model.Item, error)
	FindByCode(ctx context.Context, itemCode string) (*model.Item, error)

	// Upsert inserts or replaces the row keyed by item code.
	Upsert(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, itemCode string) error
}

// TransactionLog exposes the transactions that reference an item.
type TransactionLog interface {
	ListByItem(ctx context.Context, itemCode string) ([]model.Transaction, error)
}

// Indexer keeps an external search index of item master data.
type Indexer interface {
	IndexItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, itemCode string) error
	SearchItemCodes(ctx context.Context, filters *dto.ItemFilters) ([]string, error)
}
