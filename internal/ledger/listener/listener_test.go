package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	itemRepoPkg "github.com/fekuna/hotel-stock-service/internal/item/repository"
	"github.com/fekuna/hotel-stock-service/internal/ledger"
	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	ledgerRepoPkg "github.com/fekuna/hotel-stock-service/internal/ledger/repository"
	ledgerUCPkg "github.com/fekuna/hotel-stock-service/internal/ledger/usecase"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/cache"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// sliceReader serves queued messages, then cancels the listener.
type sliceReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *sliceReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *sliceReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

// flakyUseCase fails the first failures RecordTransaction calls with err.
type flakyUseCase struct {
	ledger.UseCase
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (f *flakyUseCase) RecordTransaction(ctx context.Context, input *dto.RecordTransactionInput) (*model.Transaction, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return nil, f.err
	}
	return f.UseCase.RecordTransaction(ctx, input)
}

func newUseCase(t *testing.T) ledger.UseCase {
	t.Helper()
	items := itemRepoPkg.NewMemoryRepository()
	seed := []model.Item{
		{ItemCode: "TWL-01", Kind: model.KindLinen, ItemName: "Bath Towel", OpeningBalance: 20},
		{ItemCode: "SOAP-01", Kind: model.KindConsumable, ItemName: "Guest Soap", Category: "Amenities", OpeningBalance: 100},
	}
	for i := range seed {
		if err := items.Upsert(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}
	return ledgerUCPkg.NewLedgerUseCase(ledgerRepoPkg.NewMemoryRepository(), items, cache.NewLocalLocker(), nil, logger.NewNop())
}

func message(t *testing.T, offset int64, eventID, eventType string, p MovementPayload) kafka.Message {
	t.Helper()
	b, err := json.Marshal(MovementEvent{
		EventID:   eventID,
		EventType: eventType,
		Payload:   p,
		Timestamp: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return kafka.Message{Offset: offset, Value: b}
}

func run(ctx context.Context, t *testing.T, l *MovementListener) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func netBalance(t *testing.T, uc ledger.UseCase, code string) int64 {
	t.Helper()
	b, err := uc.GetItemBalance(context.Background(), code)
	if err != nil {
		t.Fatalf("GetItemBalance(%s) error = %v", code, err)
	}
	return b.NetBalance
}

func TestStartRecordsMovements(t *testing.T) {
	uc := newUseCase(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{cancel: cancel, msgs: []kafka.Message{
		message(t, 0, "e0", EventLinenReceived, MovementPayload{ItemCode: "TWL-01", Date: "2024-03-01", Quantity: 10}),
		message(t, 1, "e1", EventLinenSent, MovementPayload{ItemCode: "TWL-01", Date: "2024-03-02", Quantity: 4, RecordedBy: "laundry"}),
		message(t, 2, "e2", EventConsumableIssued, MovementPayload{ItemCode: "SOAP-01", Quantity: 12, Remark: "floor 3"}),
		message(t, 3, "e3", EventConsumableReceived, MovementPayload{ItemCode: "SOAP-01", Date: "2024-03-10", Quantity: 2}),
		{Offset: 4, Value: []byte("{not json")},
		message(t, 5, "e5", "RoomCleaned", MovementPayload{ItemCode: "TWL-01", Quantity: 99}),
		message(t, 6, "e6", EventLinenSent, MovementPayload{ItemCode: "TWL-01", Date: "2024-03-03", Quantity: 0}),
		message(t, 7, "e7", EventLinenSent, MovementPayload{ItemCode: "NOPE", Date: "2024-03-03", Quantity: 1}),
	}}

	run(ctx, t, NewMovementListener(reader, uc, logger.NewNop()))

	if got := netBalance(t, uc, "TWL-01"); got != 26 {
		t.Errorf("towel net = %d, want 26", got)
	}
	if got := netBalance(t, uc, "SOAP-01"); got != 90 {
		t.Errorf("soap net = %d, want 90", got)
	}
	if len(reader.committed) != 8 {
		t.Errorf("committed offsets = %v, want all 8", reader.committed)
	}
}

func TestStartRetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		err       error
		wantNet   int64
		wantCalls int
	}{
		{"busy lock recovers", 2, cache.ErrLockNotAcquired, 30, 3},
		{"store error exhausts attempts", 5, errors.New("connection reset"), 20, 3},
		{"unknown item is not retried", 5, model.ErrUnknownItem, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newUseCase(t)
			uc := &flakyUseCase{UseCase: base, failures: tt.failures, err: tt.err}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			reader := &sliceReader{cancel: cancel, msgs: []kafka.Message{
				message(t, 0, "e0", EventLinenReceived, MovementPayload{ItemCode: "TWL-01", Date: "2024-03-01", Quantity: 10}),
			}}
			l := NewMovementListener(reader, uc, logger.NewNop())
			l.retryBackoff = time.Millisecond

			run(ctx, t, l)

			if got := netBalance(t, base, "TWL-01"); got != tt.wantNet {
				t.Errorf("net = %d, want %d", got, tt.wantNet)
			}
			if uc.calls != tt.wantCalls {
				t.Errorf("RecordTransaction calls = %d, want %d", uc.calls, tt.wantCalls)
			}
			if len(reader.committed) != 1 {
				t.Errorf("committed = %v, want the message committed once settled", reader.committed)
			}
		})
	}
}

func TestStartLeavesMessageUncommittedOnShutdown(t *testing.T) {
	base := newUseCase(t)
	uc := &flakyUseCase{UseCase: base, failures: 10, err: cache.ErrLockNotAcquired}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{cancel: cancel, msgs: []kafka.Message{
		message(t, 0, "e0", EventLinenReceived, MovementPayload{ItemCode: "TWL-01", Date: "2024-03-01", Quantity: 10}),
	}}
	l := NewMovementListener(reader, uc, logger.NewNop())
	l.retryBackoff = time.Hour
	time.AfterFunc(20*time.Millisecond, cancel)

	run(ctx, t, l)

	if len(reader.committed) != 0 {
		t.Errorf("committed = %v, want nothing so the movement is redelivered", reader.committed)
	}
}

func TestStartSkipsRedeliveredEvent(t *testing.T) {
	uc := newUseCase(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	movement := MovementPayload{ItemCode: "TWL-01", Date: "2024-03-02", Quantity: 4}
	reader := &sliceReader{cancel: cancel, msgs: []kafka.Message{
		message(t, 0, "sent-1", EventLinenSent, movement),
		message(t, 1, "sent-1", EventLinenSent, movement),
		message(t, 2, "sent-2", EventLinenSent, movement),
	}}

	run(ctx, t, NewMovementListener(reader, uc, logger.NewNop()))

	if got := netBalance(t, uc, "TWL-01"); got != 12 {
		t.Errorf("net = %d, want 12 (two distinct issues of 4)", got)
	}
	if len(reader.committed) != 3 {
		t.Errorf("committed = %v, want all 3", reader.committed)
	}
}

func TestProcessMessageDefaults(t *testing.T) {
	uc := newUseCase(t)
	l := NewMovementListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), message(t, 0, "e0", EventConsumableIssued, MovementPayload{ItemCode: "SOAP-01", Quantity: 3}).Value)

	txns, err := uc.ListTransactions(context.Background(), &dto.TransactionFilters{ItemCode: "SOAP-01"})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txns))
	}
	if txns[0].Date != "2024-03-09" {
		t.Errorf("date = %s, want event timestamp date 2024-03-09", txns[0].Date)
	}
	if txns[0].RecordedBy != model.DefaultRecordedBy {
		t.Errorf("recorded_by = %q, want %q", txns[0].RecordedBy, model.DefaultRecordedBy)
	}
	if txns[0].OutQty != 3 || txns[0].InQty != 0 {
		t.Errorf("quantities = in %d out %d, want out 3", txns[0].InQty, txns[0].OutQty)
	}
}

func TestRecentEventsEvictsOldest(t *testing.T) {
	r := newRecentEvents(2)
	r.add("a")
	r.add("b")
	r.add("a")
	r.add("c")

	if r.contains("a") {
		t.Error("oldest id a still remembered")
	}
	if !r.contains("b") || !r.contains("c") {
		t.Error("recent ids b, c forgotten")
	}
}
