// Package board holds the in-memory rendition of the order dashboard: a
// snapshot of rows loaded from the document store plus the derived revenue
// figures. The store stays the sole source of truth; every mutation goes to
// the store first and the snapshot is then rebuilt wholesale. There is no
// optimistic patching and no incremental merge.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/confirm"
	"github.com/Additional-Code/orderdesk/internal/dto"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/notify"
)

// ErrUnknownOrder is returned when an operation targets an order that is not
// on the board.
var ErrUnknownOrder = errors.New("order not on the board")

// Orders is the slice of the order service the board drives.
type Orders interface {
	List(ctx context.Context) ([]entity.Order, error)
	SetFlag(ctx context.Context, id, flag string, value bool) error
	Delete(ctx context.Context, id string) error
}

// Config carries the board's presentation and aggregation knobs.
type Config struct {
	Presentation dto.Presentation
	FeeRate      float64
}

// Board is safe for concurrent readers. Mutations against the store are
// deliberately not serialized: two toggles on the same flag racing each
// other resolve last-write-wins at the store, and the snapshot catches up on
// the next reload.
type Board struct {
	orders   Orders
	gate     confirm.Gate
	notifier notify.Sink
	logger   *zap.Logger
	cfg      Config

	mu      sync.RWMutex
	rows    []dto.OrderRow
	summary dto.Summary
}

// New builds an empty board; call Refresh to load the first snapshot.
func New(orders Orders, gate confirm.Gate, notifier notify.Sink, logger *zap.Logger, cfg Config) *Board {
	return &Board{
		orders:   orders,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
	}
}

// Refresh reloads the snapshot from the store. A retrieval failure is logged
// and leaves the previously displayed rows and summary untouched; it never
// surfaces to the display path.
func (b *Board) Refresh(ctx context.Context) {
	orders, err := b.orders.List(ctx)
	if err != nil {
		b.logger.Warn("order reload failed, keeping previous list", zap.Error(err))
		return
	}

	rows := dto.NewOrderRows(orders, b.cfg.Presentation)
	summary := Summarize(rows, b.cfg.FeeRate)

	b.mu.Lock()
	b.rows = rows
	b.summary = summary
	b.mu.Unlock()
}

// Rows returns the currently displayed rows, newest order first.
func (b *Board) Rows() []dto.OrderRow {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rows := make([]dto.OrderRow, len(b.rows))
	copy(rows, b.rows)
	return rows
}

// Summary returns the revenue figures derived from the current rows.
func (b *Board) Summary() dto.Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.summary
}

// ToggleFlag flips the named status flag on an order: the negation of the
// currently displayed value is written to the store as a partial update and
// the snapshot is reloaded on success. A failed write notifies the operator
// and keeps the stale snapshot; no reload runs, so the displayed value may
// diverge from the store until the next refresh.
func (b *Board) ToggleFlag(ctx context.Context, id, flag string) error {
	if !entity.ValidFlag(flag) {
		return fmt.Errorf("unknown flag %q", flag)
	}

	current, ok := b.flagValue(id, flag)
	if !ok {
		return ErrUnknownOrder
	}

	if err := b.orders.SetFlag(ctx, id, flag, !current); err != nil {
		b.notifier.Error(flagMessage(flag, false))
		return nil
	}

	b.notifier.Success(flagMessage(flag, true))
	b.Refresh(ctx)
	return nil
}

// DeleteOrder removes an order after the gate confirms. A dismissed gate is
// a no-op: no store call is made and the snapshot is unchanged.
func (b *Board) DeleteOrder(ctx context.Context, id string) error {
	ok, err := b.gate.Confirm(ctx, "Delete this order?", "This action cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := b.orders.Delete(ctx, id); err != nil {
		b.notifier.Error("delete failed")
		return nil
	}

	b.notifier.Success("order deleted")
	b.Refresh(ctx)
	return nil
}

func (b *Board) flagValue(id, flag string) (bool, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range b.rows {
		if b.rows[i].ID != id {
			continue
		}
		if flag == entity.FlagHavePaid {
			return b.rows[i].HavePaid, true
		}
		return b.rows[i].HaveSend, true
	}
	return false, false
}

func flagMessage(flag string, ok bool) string {
	subject := "payment status"
	if flag == entity.FlagHaveSend {
		subject = "shipping status"
	}
	if ok {
		return subject + " updated"
	}
	return subject + " update failed"
}
