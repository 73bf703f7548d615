package ledger

import (
	"time"

	"github.com/fekuna/hotel-stock-service/internal/model"
)

const (
	EventTransactionRecorded = "StockTransactionRecorded"
	EventTransactionEdited   = "StockTransactionEdited"
	EventTransactionDeleted  = "StockTransactionDeleted"
)

// Event is published after every ledger mutation with the recomputed balance.
type Event struct {
	EventID     string            `json:"event_id"`
	EventType   string            `json:"event_type"`
	Transaction model.Transaction `json:"transaction"`
	Balance     model.Balance     `json:"balance"`
	Timestamp   time.Time         `json:"timestamp"`
}
