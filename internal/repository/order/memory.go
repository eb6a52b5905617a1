package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Additional-Code/orderdesk/internal/entity"
)

// Memory is an in-process Store with the same observable semantics as the
// remote drivers. It backs the "memory" driver and stands in for the remote
// store in tests.
type Memory struct {
	mu     sync.RWMutex
	orders map[string]entity.Order
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{orders: make(map[string]entity.Order)}
}

// List returns a snapshot ordered by creation time descending, id ascending
// on ties.
func (m *Memory) List(ctx context.Context) ([]entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

// Get fetches a single order by id.
func (m *Memory) Get(ctx context.Context, id string) (*entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

// Insert stores a new order, assigning an id when unset.
func (m *Memory) Insert(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[order.ID]; exists {
		return fmt.Errorf("duplicate order id %q", order.ID)
	}
	m.orders[order.ID] = *order
	return nil
}

// UpdateFields applies a partial update to the named document fields,
// leaving every other field untouched.
func (m *Memory) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		if err := applyField(&o, field, value); err != nil {
			return err
		}
	}
	m.orders[id] = o
	return nil
}

// Delete permanently removes an order.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func applyField(o *entity.Order, field string, value any) error {
	switch field {
	case entity.FlagHavePaid, entity.FlagHaveSend:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %q expects a bool, got %T", field, value)
		}
		if field == entity.FlagHavePaid {
			o.HavePaid = v
		} else {
			o.HaveSend = v
		}
	case "note", "bankCode", "storeId":
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string, got %T", field, value)
		}
		switch field {
		case "note":
			o.Note = v
		case "bankCode":
			o.BankCode = v
		case "storeId":
			o.StoreID = v
		}
	default:
		return fmt.Errorf("field %q is not updatable", field)
	}
	return nil
}
