package board_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/board"
	"github.com/Additional-Code/orderdesk/internal/confirm"
	"github.com/Additional-Code/orderdesk/internal/dto"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/notify"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
)

var errStore = errors.New("store unavailable")

// trackedOrders adapts the in-memory store to the board and counts store
// calls so tests can assert which operations actually reached it.
type trackedOrders struct {
	store *repo.Memory

	mu         sync.Mutex
	lists      int
	sets       int
	deletes    int
	failList   bool
	failSet    bool
	failDelete bool
}

func newTrackedOrders() *trackedOrders {
	return &trackedOrders{store: repo.NewMemory()}
}

func (t *trackedOrders) List(ctx context.Context) ([]entity.Order, error) {
	t.mu.Lock()
	t.lists++
	fail := t.failList
	t.mu.Unlock()
	if fail {
		return nil, errStore
	}
	return t.store.List(ctx)
}

func (t *trackedOrders) SetFlag(ctx context.Context, id, flag string, value bool) error {
	t.mu.Lock()
	t.sets++
	fail := t.failSet
	t.mu.Unlock()
	if fail {
		return errStore
	}
	return t.store.UpdateFields(ctx, id, map[string]any{flag: value})
}

func (t *trackedOrders) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	t.deletes++
	fail := t.failDelete
	t.mu.Unlock()
	if fail {
		return errStore
	}
	return t.store.Delete(ctx, id)
}

func (t *trackedOrders) counts() (lists, sets, deletes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lists, t.sets, t.deletes
}

func testConfig() board.Config {
	return board.Config{
		Presentation: dto.Presentation{StoreSuffix: "門市", Placeholder: "-"},
		FeeRate:      0.08,
	}
}

func newTestBoard(t *testing.T, orders board.Orders, gate confirm.Gate) (*board.Board, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	return board.New(orders, gate, rec, zap.NewNop(), testConfig()), rec
}

func seedOrder(t *testing.T, store *repo.Memory, id string, createdAt int64, total float64) {
	t.Helper()
	err := store.Insert(context.Background(), &entity.Order{
		ID:        id,
		Name:      "客戶" + id,
		CreatedAt: createdAt,
		Total:     total,
	})
	if err != nil {
		t.Fatalf("seed order %s: %v", id, err)
	}
}

func TestRefreshOrdersNewestFirst(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)
	seedOrder(t, orders.store, "b", 300, 10)
	seedOrder(t, orders.store, "d", 200, 10)
	seedOrder(t, orders.store, "c", 200, 10)

	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	rows := b.Rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt > rows[i-1].CreatedAt {
			t.Fatalf("rows not in descending createdAt order at %d: %d > %d", i, rows[i].CreatedAt, rows[i-1].CreatedAt)
		}
	}
	// Equal timestamps break ties by id ascending.
	if rows[1].ID != "c" || rows[2].ID != "d" {
		t.Fatalf("tie order = %s,%s, want c,d", rows[1].ID, rows[2].ID)
	}
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 383)

	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	before := b.Rows()
	summaryBefore := b.Summary()

	orders.failList = true
	b.Refresh(context.Background())

	after := b.Rows()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Fatalf("rows changed after failed refresh: %+v", after)
	}
	if b.Summary() != summaryBefore {
		t.Fatalf("summary changed after failed refresh: %+v", b.Summary())
	}
}

func TestToggleFlagFlipsOnce(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)

	b, rec := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	if err := b.ToggleFlag(context.Background(), "a", entity.FlagHavePaid); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := b.Rows()[0].HavePaid; !got {
		t.Fatalf("havePaid = %v, want true", got)
	}
	if b.Rows()[0].HaveSend {
		t.Fatal("haveSend changed by a havePaid toggle")
	}
	if len(rec.Successes) != 1 {
		t.Fatalf("success notices = %d, want 1", len(rec.Successes))
	}
}

func TestToggleFlagTwiceRestores(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)

	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	original := b.Rows()[0].HaveSend
	for i := 0; i < 2; i++ {
		if err := b.ToggleFlag(context.Background(), "a", entity.FlagHaveSend); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	if got := b.Rows()[0].HaveSend; got != original {
		t.Fatalf("haveSend = %v after double toggle, want %v", got, original)
	}
}

func TestToggleUnknownFlag(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)

	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	if err := b.ToggleFlag(context.Background(), "a", "shipped"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if _, sets, _ := orders.counts(); sets != 0 {
		t.Fatalf("store writes = %d, want 0", sets)
	}
}

func TestToggleUnknownOrder(t *testing.T) {
	orders := newTrackedOrders()
	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	if err := b.ToggleFlag(context.Background(), "missing", entity.FlagHavePaid); !errors.Is(err, board.ErrUnknownOrder) {
		t.Fatalf("err = %v, want ErrUnknownOrder", err)
	}
}

func TestToggleWriteFailureKeepsStaleList(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)

	b, rec := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())
	listsBefore, _, _ := orders.counts()

	orders.failSet = true
	if err := b.ToggleFlag(context.Background(), "a", entity.FlagHavePaid); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if b.Rows()[0].HavePaid {
		t.Fatal("displayed flag changed despite failed write")
	}
	if len(rec.Errors) != 1 {
		t.Fatalf("error notices = %d, want 1", len(rec.Errors))
	}
	// No reload runs after a failed write; the list stays stale.
	if listsAfter, _, _ := orders.counts(); listsAfter != listsBefore {
		t.Fatalf("reloads after failed write: %d -> %d", listsBefore, listsAfter)
	}
}

func TestDeleteRemovesOrderAndRevenue(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 200, 100)
	seedOrder(t, orders.store, "b", 100, 250)

	b, rec := newTestBoard(t, orders, confirm.Confirmed(true))
	b.Refresh(context.Background())

	if err := b.DeleteOrder(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows := b.Rows()
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("rows after delete = %+v", rows)
	}
	if got := b.Summary().TotalRevenue; got != 250 {
		t.Fatalf("revenue after delete = %v, want 250", got)
	}
	if len(rec.Successes) != 1 {
		t.Fatalf("success notices = %d, want 1", len(rec.Successes))
	}
}

func TestDeleteCancelledIsNoOp(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 100)

	b, rec := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())
	listsBefore, _, _ := orders.counts()

	if err := b.DeleteOrder(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	lists, sets, deletes := orders.counts()
	if deletes != 0 || sets != 0 || lists != listsBefore {
		t.Fatalf("store calls after cancelled delete: lists=%d sets=%d deletes=%d", lists, sets, deletes)
	}
	if len(b.Rows()) != 1 {
		t.Fatal("rows changed after cancelled delete")
	}
	if len(rec.Successes) != 0 && len(rec.Errors) != 0 {
		t.Fatal("notifications emitted for cancelled delete")
	}
}

func TestDeleteFailureKeepsStaleList(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 100)

	b, rec := newTestBoard(t, orders, confirm.Confirmed(true))
	b.Refresh(context.Background())

	orders.failDelete = true
	if err := b.DeleteOrder(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(b.Rows()) != 1 {
		t.Fatal("rows changed despite failed delete")
	}
	if len(rec.Errors) != 1 {
		t.Fatalf("error notices = %d, want 1", len(rec.Errors))
	}
}

// Two toggles computed from the same displayed snapshot both write the same
// negation; the store resolves last-write-wins and the flag flips once, not
// twice. That is the documented consistency model for unserialized toggles.
func TestConcurrentTogglesLastWriteWins(t *testing.T) {
	orders := newTrackedOrders()
	seedOrder(t, orders.store, "a", 100, 10)

	b, _ := newTestBoard(t, orders, confirm.Confirmed(false))
	b.Refresh(context.Background())

	current := b.Rows()[0].HavePaid

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = orders.SetFlag(context.Background(), "a", entity.FlagHavePaid, !current)
		}()
	}
	wg.Wait()

	stored, err := orders.store.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.HavePaid != !current {
		t.Fatalf("havePaid = %v, want %v (single flip)", stored.HavePaid, !current)
	}
}
