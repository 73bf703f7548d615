package item

import (
	"context"

	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error)
	GetItem(ctx context.Context, itemCode string) (*model.Item, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, itemCode string) error

	// ReindexItems backfills the search index from the store. It returns how many items were written.
	ReindexItems(ctx context.Context) (int, error)
}
