package dto

import "github.com/fekuna/hotel-stock-service/internal/model"

type ItemFilters struct {
	Kind  model.ItemKind // Empty means all kinds
	Query string         // Case-insensitive substring over code, name and category
}
