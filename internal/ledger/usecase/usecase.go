package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/item"
	"github.com/fekuna/hotel-stock-service/internal/ledger"
	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/cache"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ledgerUseCase struct {
	repo      ledger.Repository
	items     item.Repository
	locker    cache.Locker
	publisher ledger.Publisher // Optional
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewLedgerUseCase(repo ledger.Repository, items item.Repository, locker cache.Locker, publisher ledger.Publisher, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:      repo,
		items:     items,
		locker:    locker,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *ledgerUseCase) RecordTransaction(ctx context.Context, input *dto.RecordTransactionInput) (*model.Transaction, error) {
	itemCode := strings.TrimSpace(input.ItemCode)
	if itemCode == "" {
		return nil, model.NewValidationError("item_code", "is required")
	}
	if err := ledger.ValidateMovement(input.Date, input.InQty, input.OutQty); err != nil {
		return nil, err
	}
	recordedBy := strings.TrimSpace(input.RecordedBy)
	if recordedBy == "" {
		recordedBy = model.DefaultRecordedBy
	}

	var txn *model.Transaction
	err := cache.WithLock(ctx, uc.locker, cache.StockLockKey(itemCode), func() error {
		it, err := uc.items.FindByCode(ctx, itemCode)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if it == nil {
			return model.ErrUnknownItem
		}

		now := uc.now()
		txn = &model.Transaction{
			BaseModel:  model.BaseModel{CreatedAt: now, UpdatedAt: now},
			ID:         uuid.New().String(),
			ItemCode:   itemCode,
			Date:       input.Date,
			InQty:      input.InQty,
			OutQty:     input.OutQty,
			Remark:     strings.TrimSpace(input.Remark),
			RecordedBy: recordedBy,
		}
		if err := uc.repo.Upsert(ctx, txn); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		uc.announce(ctx, ledger.EventTransactionRecorded, it, txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// EditTransaction replaces date, quantities and remark in place. The item and recorder stay.
func (uc *ledgerUseCase) EditTransaction(ctx context.Context, input *dto.EditTransactionInput) (*model.Transaction, error) {
	if err := ledger.ValidateMovement(input.Date, input.InQty, input.OutQty); err != nil {
		return nil, err
	}

	current, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if current == nil {
		return nil, model.ErrUnknownTransaction
	}

	var updated *model.Transaction
	err = cache.WithLock(ctx, uc.locker, cache.StockLockKey(current.ItemCode), func() error {
		// Re-read under the lock, it may have been deleted meanwhile
		txn, err := uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return fmt.Errorf("find transaction: %w", err)
		}
		if txn == nil {
			return model.ErrUnknownTransaction
		}

		txn.Date = input.Date
		txn.InQty = input.InQty
		txn.OutQty = input.OutQty
		txn.Remark = strings.TrimSpace(input.Remark)
		txn.UpdatedAt = uc.now()

		if err := uc.repo.Upsert(ctx, txn); err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}
		updated = txn

		if it, err := uc.items.FindByCode(ctx, txn.ItemCode); err == nil && it != nil {
			uc.announce(ctx, ledger.EventTransactionEdited, it, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes the movement; the next balance read no longer includes it.
func (uc *ledgerUseCase) DeleteTransaction(ctx context.Context, id string) error {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find transaction: %w", err)
	}
	if current == nil {
		return model.ErrUnknownTransaction
	}

	return cache.WithLock(ctx, uc.locker, cache.StockLockKey(current.ItemCode), func() error {
		txn, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find transaction: %w", err)
		}
		if txn == nil {
			return model.ErrUnknownTransaction
		}

		if err := uc.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}

		if it, err := uc.items.FindByCode(ctx, txn.ItemCode); err == nil && it != nil {
			uc.announce(ctx, ledger.EventTransactionDeleted, it, txn)
		}
		return nil
	})
}

func (uc *ledgerUseCase) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, model.NewValidationError("kind", "must be consumable or linen")
	}
	if err := validateRange(f.From, f.To, false); err != nil {
		return nil, err
	}

	txns, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if f.Kind == "" && strings.TrimSpace(f.Query) == "" {
		return txns, nil
	}

	items, err := uc.itemIndex(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		it, ok := items[t.ItemCode]
		if f.Kind != "" && (!ok || it.Kind != f.Kind) {
			continue
		}
		if model.MatchesText(f.Query, t.ItemCode, it.ItemName, t.Remark) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetItemBalance recomputes the balance from the item's full log on every call.
func (uc *ledgerUseCase) GetItemBalance(ctx context.Context, itemCode string) (*model.Balance, error) {
	it, err := uc.items.FindByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, model.ErrUnknownItem
	}

	log, err := uc.repo.ListByItem(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	b := ledger.Compute(it, log)
	return &b, nil
}

func (uc *ledgerUseCase) ListBalances(ctx context.Context, f *dto.BalanceFilters) ([]model.Balance, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, model.NewValidationError("kind", "must be consumable or linen")
	}

	items, err := uc.items.List(ctx, f.Kind)
	if err != nil {
		return nil, err
	}
	byItem, err := uc.logByItem(ctx, &dto.TransactionFilters{})
	if err != nil {
		return nil, err
	}

	out := make([]model.Balance, 0, len(items))
	for i := range items {
		it := &items[i]
		if !model.MatchesText(f.Query, it.SearchFields()...) {
			continue
		}
		out = append(out, ledger.Compute(it, byItem[it.ItemCode]))
	}
	return out, nil
}

func (uc *ledgerUseCase) StockReport(ctx context.Context, f *dto.ReportFilters) ([]model.PeriodSummary, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, model.NewValidationError("kind", "must be consumable or linen")
	}
	if err := validateRange(f.From, f.To, true); err != nil {
		return nil, err
	}

	items, err := uc.items.List(ctx, f.Kind)
	if err != nil {
		return nil, err
	}
	byItem, err := uc.logByItem(ctx, &dto.TransactionFilters{To: f.To})
	if err != nil {
		return nil, err
	}

	out := make([]model.PeriodSummary, 0, len(items))
	for i := range items {
		out = append(out, ledger.Summarize(&items[i], byItem[items[i].ItemCode], f.From, f.To))
	}
	return out, nil
}

func (uc *ledgerUseCase) logByItem(ctx context.Context, f *dto.TransactionFilters) (map[string][]model.Transaction, error) {
	txns, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	byItem := make(map[string][]model.Transaction)
	for _, t := range txns {
		byItem[t.ItemCode] = append(byItem[t.ItemCode], t)
	}
	return byItem, nil
}

func (uc *ledgerUseCase) itemIndex(ctx context.Context) (map[string]model.Item, error) {
	items, err := uc.items.List(ctx, "")
	if err != nil {
		return nil, err
	}
	m := make(map[string]model.Item, len(items))
	for _, it := range items {
		m[it.ItemCode] = it
	}
	return m, nil
}

// announce recomputes the balance after a mutation and publishes it. Failures are only logged.
func (uc *ledgerUseCase) announce(ctx context.Context, eventType string, it *model.Item, txn *model.Transaction) {
	if uc.publisher == nil {
		return
	}

	log, err := uc.repo.ListByItem(ctx, it.ItemCode)
	if err != nil {
		uc.logger.Error("failed to recompute balance for event", zap.String("item_code", it.ItemCode), zap.Error(err))
		return
	}

	event := ledger.Event{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		Transaction: *txn,
		Balance:     ledger.Compute(it, log),
		Timestamp:   uc.now(),
	}

	go func() {
		if err := uc.publisher.Publish(context.Background(), event.Balance.ItemCode, event); err != nil {
			uc.logger.Error("failed to publish ledger event",
				zap.String("event_type", eventType),
				zap.String("transaction_id", event.Transaction.ID),
				zap.Error(err),
			)
		}
	}()
}

func validateRange(from, to string, required bool) error {
	if from != "" || required {
		if err := ledger.ValidateDate("from", from); err != nil {
			return err
		}
	}
	if to != "" || required {
		if err := ledger.ValidateDate("to", to); err != nil {
			return err
		}
	}
	if from != "" && to != "" && from > to {
		return model.NewValidationError("from", "must not be after to")
	}
	return nil
}
