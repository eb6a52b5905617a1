package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Additional-Code/orderdesk/internal/entity"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
)

func insert(t *testing.T, m *repo.Memory, o entity.Order) {
	t.Helper()
	if err := m.Insert(context.Background(), &o); err != nil {
		t.Fatalf("insert %s: %v", o.ID, err)
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	m := repo.NewMemory()
	insert(t, m, entity.Order{ID: "old", CreatedAt: 100})
	insert(t, m, entity.Order{ID: "new", CreatedAt: 300})
	insert(t, m, entity.Order{ID: "tie-b", CreatedAt: 200})
	insert(t, m, entity.Order{ID: "tie-a", CreatedAt: 200})

	orders, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"new", "tie-a", "tie-b", "old"}
	if len(orders) != len(want) {
		t.Fatalf("len = %d, want %d", len(orders), len(want))
	}
	for i, id := range want {
		if orders[i].ID != id {
			t.Errorf("orders[%d].ID = %s, want %s", i, orders[i].ID, id)
		}
	}
}

func TestMemoryInsertAssignsID(t *testing.T) {
	m := repo.NewMemory()
	o := entity.Order{CreatedAt: 1}
	if err := m.Insert(context.Background(), &o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o.ID == "" {
		t.Fatal("insert left ID empty")
	}
}

func TestMemoryInsertRejectsDuplicateID(t *testing.T) {
	m := repo.NewMemory()
	insert(t, m, entity.Order{ID: "a"})
	dup := entity.Order{ID: "a"}
	if err := m.Insert(context.Background(), &dup); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestMemoryUpdateFieldsIsPartial(t *testing.T) {
	m := repo.NewMemory()
	insert(t, m, entity.Order{ID: "a", Name: "林小姐", Note: "原始備註", Total: 500})

	err := m.UpdateFields(context.Background(), "a", map[string]any{entity.FlagHavePaid: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := m.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.HavePaid {
		t.Error("havePaid not updated")
	}
	if got.HaveSend {
		t.Error("haveSend touched by havePaid update")
	}
	if got.Name != "林小姐" || got.Note != "原始備註" || got.Total != 500 {
		t.Errorf("unrelated fields changed: %+v", got)
	}
}

func TestMemoryUpdateFieldsValidation(t *testing.T) {
	m := repo.NewMemory()
	insert(t, m, entity.Order{ID: "a"})

	if err := m.UpdateFields(context.Background(), "a", map[string]any{"total": 99}); err == nil {
		t.Error("expected error for non-updatable field")
	}
	if err := m.UpdateFields(context.Background(), "a", map[string]any{entity.FlagHavePaid: "yes"}); err == nil {
		t.Error("expected error for wrong value type")
	}
	if err := m.UpdateFields(context.Background(), "missing", map[string]any{entity.FlagHavePaid: true}); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := repo.NewMemory()
	insert(t, m, entity.Order{ID: "a", CreatedAt: 1})
	insert(t, m, entity.Order{ID: "b", CreatedAt: 2})

	if err := m.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(context.Background(), "a"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("get deleted = %v, want ErrNotFound", err)
	}
	orders, _ := m.List(context.Background())
	if len(orders) != 1 || orders[0].ID != "b" {
		t.Errorf("list after delete = %+v", orders)
	}

	if err := m.Delete(context.Background(), "a"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}
