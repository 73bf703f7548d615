package model

// Balance is derived from an item and its transaction log. It is never persisted.
type Balance struct {
	ItemCode       string   `json:"item_code"`
	ItemName       string   `json:"item_name"`
	Kind           ItemKind `json:"kind"`
	Category       string   `json:"category,omitempty"`
	OpeningBalance int64    `json:"opening_balance"`
	TotalIn        int64    `json:"total_in"`
	TotalOut       int64    `json:"total_out"`
	NetBalance     int64    `json:"net_balance"`
}

// PeriodSummary is one row of the stock report for a date range.
type PeriodSummary struct {
	ItemCode       string   `json:"item_code"`
	ItemName       string   `json:"item_name"`
	Kind           ItemKind `json:"kind"`
	BroughtForward int64    `json:"brought_forward"`
	PeriodIn       int64    `json:"period_in"`
	PeriodOut      int64    `json:"period_out"`
	Closing        int64    `json:"closing"`
}
