package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/database"
	"github.com/Additional-Code/orderdesk/internal/entity"
)

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Store is the document-store contract the dashboard core depends on. The
// remote store is the sole source of truth; callers treat List as a full
// snapshot and never patch results locally.
type Store interface {
	// List returns every order, newest first (created_at descending, id
	// ascending as the stable tiebreak).
	List(ctx context.Context) ([]entity.Order, error)
	// Get fetches a single order by id.
	Get(ctx context.Context, id string) (*entity.Order, error)
	// Insert persists a new order, assigning its id and creation time when
	// unset.
	Insert(ctx context.Context, order *entity.Order) error
	// UpdateFields applies a partial update: only the named document fields
	// are touched.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// Delete permanently removes an order. There is no soft delete.
	Delete(ctx context.Context, id string) error
}

// NewStore selects the store driver configured under DB_DRIVER.
func NewStore(conns *database.Connections, cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
		return newBunStore(conns), nil
	case "mongo":
		return newMongoStore(conns.Mongo), nil
	case "memory":
		if logger != nil {
			logger.Info("using in-memory order store")
		}
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
