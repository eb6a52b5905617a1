package order_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/cache"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
	service "github.com/Additional-Code/orderdesk/internal/service/order"
	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

func newTestService(t *testing.T) (*service.Service, *repo.Memory) {
	t.Helper()
	store := repo.NewMemory()
	svc := service.NewService(service.Params{
		Store:     store,
		Cache:     cache.Noop(),
		Config:    config.Config{},
		Logger:    zap.NewNop(),
		Publisher: messaging.Noop("orders.events"),
	})
	return svc, store
}

func mustCreate(t *testing.T, svc *service.Service, o *entity.Order) {
	t.Helper()
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	o := &entity.Order{Name: "林小姐", Total: 680}
	mustCreate(t, svc, o)

	if o.ID == "" {
		t.Error("create left ID empty")
	}
	if o.CreatedAt == 0 {
		t.Error("create left CreatedAt zero")
	}
	if o.HavePaid || o.HaveSend {
		t.Error("new order must start with both flags down")
	}
}

func TestCreateRejectsNegativeTotal(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), &entity.Order{Total: -1})
	if errorbank.From(err).Kind() != errorbank.KindBadRequest {
		t.Fatalf("kind = %v, want bad_request", errorbank.From(err).Kind())
	}
}

func TestSetFlagValidatesFlagName(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SetFlag(context.Background(), "any", "paid", true)
	if errorbank.From(err).Kind() != errorbank.KindBadRequest {
		t.Fatalf("kind = %v, want bad_request", errorbank.From(err).Kind())
	}
}

func TestSetFlagUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SetFlag(context.Background(), "missing", entity.FlagHavePaid, true)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Fatalf("kind = %v, want not_found", errorbank.From(err).Kind())
	}
}

func TestSetFlagWritesOnlyThatFlag(t *testing.T) {
	svc, store := newTestService(t)

	o := &entity.Order{Name: "陳先生", Note: "備註", Total: 100}
	mustCreate(t, svc, o)

	if err := svc.SetFlag(context.Background(), o.ID, entity.FlagHaveSend, true); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, err := store.Get(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.HaveSend || got.HavePaid {
		t.Errorf("flags = paid:%v send:%v, want paid:false send:true", got.HavePaid, got.HaveSend)
	}
	if got.Note != "備註" {
		t.Errorf("note changed by flag update: %q", got.Note)
	}
}

func TestToggleAlternates(t *testing.T) {
	svc, store := newTestService(t)

	o := &entity.Order{Total: 100}
	mustCreate(t, svc, o)

	value, err := svc.Toggle(context.Background(), o.ID, entity.FlagHavePaid)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !value {
		t.Fatal("first toggle should raise the flag")
	}

	value, err = svc.Toggle(context.Background(), o.ID, entity.FlagHavePaid)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if value {
		t.Fatal("second toggle should lower the flag")
	}

	got, _ := store.Get(context.Background(), o.ID)
	if got.HavePaid {
		t.Fatal("flag not back at its original value after double toggle")
	}
}

func TestDeleteExcludesOrderFromListing(t *testing.T) {
	svc, _ := newTestService(t)

	keep := &entity.Order{Total: 250, CreatedAt: 100}
	drop := &entity.Order{Total: 100, CreatedAt: 200}
	mustCreate(t, svc, keep)
	mustCreate(t, svc, drop)

	if err := svc.Delete(context.Background(), drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	orders, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != keep.ID {
		t.Fatalf("orders after delete = %+v", orders)
	}

	err = svc.Delete(context.Background(), drop.ID)
	if errorbank.From(err).Kind() != errorbank.KindNotFound {
		t.Fatalf("second delete kind = %v, want not_found", errorbank.From(err).Kind())
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	mustCreate(t, svc, &entity.Order{Total: 1, CreatedAt: 100})
	mustCreate(t, svc, &entity.Order{Total: 2, CreatedAt: 300})
	mustCreate(t, svc, &entity.Order{Total: 3, CreatedAt: 200})

	orders, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt > orders[i-1].CreatedAt {
			t.Fatalf("listing not newest first at %d", i)
		}
	}
}
