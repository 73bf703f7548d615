package dto

import "github.com/fekuna/hotel-stock-service/internal/model"

type CreateItemInput struct {
	Kind           model.ItemKind
	ItemCode       string
	ItemName       string
	Category       string
	OpeningBalance int64
}

// UpdateItemInput carries the editable fields. Code and opening balance are fixed.
type UpdateItemInput struct {
	ItemCode string
	ItemName string
	Category string
}
