package ledger

import (
	"context"

	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
)

// Repository is the record store for the stock_transactions table.
type Repository interface {
	List(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error)
	ListByItem(ctx context.Context, itemCode string) ([]model.Transaction, error)
	FindByID(ctx context.Context, id string) (*model.Transaction, error)

	// Upsert inserts or replaces the row keyed by ID.
	Upsert(ctx context.Context, txn *model.Transaction) error
	Delete(ctx context.Context, id string) error
}

// Publisher announces ledger changes to other services.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}
