package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/ledger"
	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Housekeeping event types consumed from the movements topic.
const (
	EventLinenSent          = "LinenSent"
	EventLinenReceived      = "LinenReceived"
	EventConsumableIssued   = "ConsumableIssued"
	EventConsumableReceived = "ConsumableReceived"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 500 * time.Millisecond
	recentEventsSize    = 4096
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type MovementListener struct {
	consumer     MessageReader
	uc           ledger.UseCase
	logger       logger.ZapLogger
	maxAttempts  int
	retryBackoff time.Duration
	seen         *recentEvents
}

func NewMovementListener(consumer MessageReader, uc ledger.UseCase, logger logger.ZapLogger) *MovementListener {
	return &MovementListener{
		consumer:     consumer,
		uc:           uc,
		logger:       logger,
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
		seen:         newRecentEvents(recentEventsSize),
	}
}

// Start consumes until ctx is done. A message is committed once it is recorded
// or rejected for good, so a crash or shutdown mid-retry redelivers it.
func (l *MovementListener) Start(ctx context.Context) {
	l.logger.Info("Starting movement Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping movement Kafka listener")
			return
		default:
			msg, err := l.consumer.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			if !l.processMessage(ctx, msg.Value) {
				return
			}
			if err := l.consumer.CommitMessages(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

type MovementEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   MovementPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type MovementPayload struct {
	ItemCode   string `json:"item_code"`
	Date       string `json:"date"`
	Quantity   int64  `json:"quantity"`
	Remark     string `json:"remark"`
	RecordedBy string `json:"recorded_by"`
}

// processMessage reports false only when ctx ended before the event was settled.
func (l *MovementListener) processMessage(ctx context.Context, value []byte) bool {
	var event MovementEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return true
	}

	input := &dto.RecordTransactionInput{
		ItemCode:   event.Payload.ItemCode,
		Date:       event.Payload.Date,
		Remark:     event.Payload.Remark,
		RecordedBy: event.Payload.RecordedBy,
	}
	switch event.EventType {
	case EventLinenReceived, EventConsumableReceived:
		input.InQty = event.Payload.Quantity
	case EventLinenSent, EventConsumableIssued:
		input.OutQty = event.Payload.Quantity
	default:
		return true
	}
	if input.Date == "" && !event.Timestamp.IsZero() {
		input.Date = event.Timestamp.Format(model.DateLayout)
	}

	log := l.logger.With(
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("item_code", input.ItemCode),
	)
	if event.EventID != "" && l.seen.contains(event.EventID) {
		log.Info("Skipping redelivered movement")
		return true
	}

	for attempt := 1; ; attempt++ {
		txn, err := l.uc.RecordTransaction(ctx, input)
		if err == nil {
			l.seen.add(event.EventID)
			log.Info("Recorded movement", zap.String("transaction_id", txn.ID))
			return true
		}
		if permanent(err) {
			log.Error("Rejected movement", zap.Error(err))
			return true
		}
		if attempt >= l.maxAttempts {
			log.Error("Giving up on movement", zap.Int("attempts", attempt), zap.Error(err))
			return true
		}

		log.Warn("Failed to record movement, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * l.retryBackoff):
		}
	}
}

// permanent errors fail the same way on every retry.
func permanent(err error) bool {
	return errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrUnknownItem)
}

// recentEvents remembers the last n recorded event ids.
type recentEvents struct {
	ids   map[string]struct{}
	order []string
	size  int
}

func newRecentEvents(size int) *recentEvents {
	return &recentEvents{ids: make(map[string]struct{}, size), size: size}
}

func (r *recentEvents) contains(id string) bool {
	_, ok := r.ids[id]
	return ok
}

func (r *recentEvents) add(id string) {
	if id == "" || r.contains(id) {
		return
	}
	if len(r.order) == r.size {
		delete(r.ids, r.order[0])
		r.order = r.order[1:]
	}
	r.ids[id] = struct{}{}
	r.order = append(r.order, id)
}
