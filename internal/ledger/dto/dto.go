package dto

import "github.com/fekuna/hotel-stock-service/internal/model"

type TransactionFilters struct {
	ItemCode string
	Kind     model.ItemKind // Applied by the use case, needs the item master
	From     string         // Inclusive, YYYY-MM-DD
	To       string         // Inclusive, YYYY-MM-DD
	Query    string         // Substring over item code, item name, remark
}

type BalanceFilters struct {
	Kind  model.ItemKind
	Query string
}

type ReportFilters struct {
	Kind model.ItemKind
	From string
	To   string
}
