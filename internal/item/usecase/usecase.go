package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/item"
	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/cache"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type itemUseCase struct {
	repo    item.Repository
	txnLog  item.TransactionLog
	locker  cache.Locker
	indexer item.Indexer // Optional
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewItemUseCase(repo item.Repository, txnLog item.TransactionLog, locker cache.Locker, indexer item.Indexer, log logger.ZapLogger) item.UseCase {
	return &itemUseCase{
		repo:    repo,
		txnLog:  txnLog,
		locker:  locker,
		indexer: indexer,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *itemUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error) {
	it := &model.Item{
		ItemCode:       strings.TrimSpace(input.ItemCode),
		Kind:           input.Kind,
		ItemName:       strings.TrimSpace(input.ItemName),
		Category:       strings.TrimSpace(input.Category),
		OpeningBalance: input.OpeningBalance,
	}
	if err := validateItem(it); err != nil {
		return nil, err
	}
	if it.OpeningBalance < 0 {
		return nil, model.NewValidationError("opening_balance", "must not be negative")
	}

	err := cache.WithLock(ctx, uc.locker, cache.StockLockKey(it.ItemCode), func() error {
		existing, err := uc.repo.FindByCode(ctx, it.ItemCode)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if existing != nil {
			return model.ErrDuplicateItemCode
		}

		now := uc.now()
		it.CreatedAt = now
		it.UpdatedAt = now
		return uc.repo.Upsert(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	go uc.syncIndex(context.Background(), it)

	return it, nil
}

func (uc *itemUseCase) GetItem(ctx context.Context, itemCode string) (*model.Item, error) {
	it, err := uc.repo.FindByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, model.ErrUnknownItem
	}
	return it, nil
}

// ListItems filters the store listing, which is authoritative. With a query the
// index hits are merged in after re-checking them, and store matches the index
// missed are reported so drift shows up in the logs.
func (uc *itemUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error) {
	if filters.Kind != "" && !filters.Kind.Valid() {
		return nil, model.NewValidationError("kind", "must be consumable or linen")
	}

	items, err := uc.repo.List(ctx, filters.Kind)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]model.Item, len(items))
	for _, it := range items {
		if model.MatchesText(filters.Query, it.SearchFields()...) {
			matched[it.ItemCode] = it
		}
	}

	if strings.TrimSpace(filters.Query) != "" && uc.indexer != nil {
		if err := uc.mergeIndexHits(ctx, filters, items, matched); err != nil {
			uc.logger.Warn("item search index unavailable, using store only", zap.Error(err))
		}
	}

	out := make([]model.Item, 0, len(matched))
	for _, it := range matched {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out, nil
}

// mergeIndexHits adds index candidates that pass the same filters against the store rows.
func (uc *itemUseCase) mergeIndexHits(ctx context.Context, filters *dto.ItemFilters, items []model.Item, matched map[string]model.Item) error {
	codes, err := uc.indexer.SearchItemCodes(ctx, filters)
	if err != nil {
		return err
	}

	byCode := make(map[string]model.Item, len(items))
	for _, it := range items {
		byCode[it.ItemCode] = it
	}

	hits := make(map[string]bool, len(codes))
	for _, code := range codes {
		it, ok := byCode[code]
		if !ok {
			continue // stale entry or other kind
		}
		hits[code] = true
		if model.MatchesText(filters.Query, it.SearchFields()...) {
			matched[code] = it
		}
	}

	missing := 0
	for code := range matched {
		if !hits[code] {
			missing++
		}
	}
	if missing > 0 {
		uc.logger.Warn("item search index is missing matching items", zap.Int("missing", missing), zap.String("query", filters.Query))
	}
	return nil
}

// ReindexItems writes every stored item to the search index.
func (uc *itemUseCase) ReindexItems(ctx context.Context) (int, error) {
	if uc.indexer == nil {
		return 0, nil
	}

	items, err := uc.repo.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list items: %w", err)
	}
	for i := range items {
		if err := uc.indexer.IndexItem(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("index item %s: %w", items[i].ItemCode, err)
		}
	}
	return len(items), nil
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error) {
	var updated *model.Item
	err := cache.WithLock(ctx, uc.locker, cache.StockLockKey(input.ItemCode), func() error {
		it, err := uc.repo.FindByCode(ctx, input.ItemCode)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if it == nil {
			return model.ErrUnknownItem
		}

		next := *it
		next.ItemName = strings.TrimSpace(input.ItemName)
		next.Category = strings.TrimSpace(input.Category)
		if err := validateItem(&next); err != nil {
			return err
		}
		next.UpdatedAt = uc.now()

		if err := uc.repo.Upsert(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	go uc.syncIndex(context.Background(), updated)

	return updated, nil
}

// DeleteItem refuses to remove an item that transactions still reference.
func (uc *itemUseCase) DeleteItem(ctx context.Context, itemCode string) error {
	err := cache.WithLock(ctx, uc.locker, cache.StockLockKey(itemCode), func() error {
		it, err := uc.repo.FindByCode(ctx, itemCode)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if it == nil {
			return model.ErrUnknownItem
		}

		txns, err := uc.txnLog.ListByItem(ctx, itemCode)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		if len(txns) > 0 {
			return model.ErrItemInUse
		}

		return uc.repo.Delete(ctx, itemCode)
	})
	if err != nil {
		return err
	}

	if uc.indexer != nil {
		go func() {
			if err := uc.indexer.DeleteItem(context.Background(), itemCode); err != nil {
				uc.logger.Error("failed to delete item from index", zap.String("item_code", itemCode), zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *itemUseCase) syncIndex(ctx context.Context, it *model.Item) {
	if uc.indexer == nil {
		return
	}
	if err := uc.indexer.IndexItem(ctx, it); err != nil {
		uc.logger.Error("failed to index item", zap.String("item_code", it.ItemCode), zap.Error(err))
	}
}

func validateItem(it *model.Item) error {
	if !it.Kind.Valid() {
		return model.NewValidationError("kind", "must be consumable or linen")
	}
	if it.ItemCode == "" {
		return model.NewValidationError("item_code", "is required")
	}
	if it.ItemName == "" {
		return model.NewValidationError("item_name", "is required")
	}
	if it.Kind == model.KindConsumable && it.Category == "" {
		return model.NewValidationError("category", "is required for consumables")
	}
	return nil
}

