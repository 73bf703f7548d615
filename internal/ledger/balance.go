package ledger

import (
	"strings"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/model"
)

// Compute derives the balance of item from its full transaction log.
// Transactions for other items are ignored, so callers may pass a wider log.
func Compute(item *model.Item, log []model.Transaction) model.Balance {
	b := model.Balance{
		ItemCode:       item.ItemCode,
		ItemName:       item.ItemName,
		Kind:           item.Kind,
		Category:       item.Category,
		OpeningBalance: item.OpeningBalance,
	}
	for i := range log {
		if log[i].ItemCode != item.ItemCode {
			continue
		}
		b.TotalIn += log[i].InQty
		b.TotalOut += log[i].OutQty
	}
	b.NetBalance = b.OpeningBalance + b.TotalIn - b.TotalOut
	return b
}

// Summarize builds the report row for item over the inclusive date range [from, to].
// Dates compare lexically, which is valid for the YYYY-MM-DD layout.
func Summarize(item *model.Item, log []model.Transaction, from, to string) model.PeriodSummary {
	s := model.PeriodSummary{
		ItemCode:       item.ItemCode,
		ItemName:       item.ItemName,
		Kind:           item.Kind,
		BroughtForward: item.OpeningBalance,
	}
	for i := range log {
		t := &log[i]
		if t.ItemCode != item.ItemCode || t.Date > to {
			continue
		}
		if t.Date < from {
			s.BroughtForward += t.InQty - t.OutQty
			continue
		}
		s.PeriodIn += t.InQty
		s.PeriodOut += t.OutQty
	}
	s.Closing = s.BroughtForward + s.PeriodIn - s.PeriodOut
	return s
}

// ValidateMovement checks the shape of a movement before anything is written.
// A movement must be dated and go in exactly one direction.
func ValidateMovement(date string, inQty, outQty int64) error {
	if err := ValidateDate("date", date); err != nil {
		return err
	}
	if inQty < 0 {
		return model.NewValidationError("in_qty", "must not be negative")
	}
	if outQty < 0 {
		return model.NewValidationError("out_qty", "must not be negative")
	}
	if inQty == 0 && outQty == 0 {
		return model.NewValidationError("quantity", "either in_qty or out_qty must be greater than zero")
	}
	if inQty > 0 && outQty > 0 {
		return model.NewValidationError("quantity", "in_qty and out_qty cannot both be set")
	}
	return nil
}

func ValidateDate(field, date string) error {
	if strings.TrimSpace(date) == "" {
		return model.NewValidationError(field, "is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.NewValidationError(field, "must be formatted as YYYY-MM-DD")
	}
	return nil
}
