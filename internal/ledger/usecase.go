package ledger

import (
	"context"

	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
)

type UseCase interface {
	RecordTransaction(ctx context.Context, input *dto.RecordTransactionInput) (*model.Transaction, error)
	EditTransaction(ctx context.Context, input *dto.EditTransactionInput) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error)

	GetItemBalance(ctx context.Context, itemCode string) (*model.Balance, error)
	ListBalances(ctx context.Context, filters *dto.BalanceFilters) ([]model.Balance, error)
	StockReport(ctx context.Context, filters *dto.ReportFilters) ([]model.PeriodSummary, error)
}
