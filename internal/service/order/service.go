package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/cache"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/orderdesk/service/order")

// listCacheKey holds the cached listing snapshot. Every mutation drops it so
// a reload after a write always reaches the store.
const listCacheKey = "orders:board"

// Service encapsulates the dashboard's order operations.
type Service struct {
	store     repo.Store
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains the messaging knobs the service cares about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store     repo.Store
	Cache     cache.Store
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:     p.Store,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// List loads the full order snapshot, newest first, consulting the listing
// cache when available.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	if orders, err := s.listFromCache(ctx); err == nil {
		return orders, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Error(err))
	}

	orders, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return nil, err
	}

	if err := s.storeListInCache(ctx, orders); err != nil {
		s.logger.Warn("orders cache write failed", zap.Error(err))
	}

	return orders, nil
}

// Create registers a new order. Orders enter the system with both status
// flags down and a creation time assigned here when the caller left it zero.
func (s *Service) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errorbank.BadRequest("order payload is required")
	}
	if order.Total < 0 {
		return errorbank.BadRequest("order total must not be negative")
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().UTC().Unix()
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.name", order.Name)))
	defer span.End()

	if err := s.store.Insert(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	s.publish(ctx, Event{Type: EventCreated, OrderID: order.ID, At: time.Now().UTC()})
	return nil
}

// SetFlag writes one status flag to an explicit value as a partial update;
// no other field is touched. This is the unambiguous primitive underneath
// Toggle, so concurrent triggers at least carry a definite intended value.
func (s *Service) SetFlag(ctx context.Context, id, flag string, value bool) error {
	if !entity.ValidFlag(flag) {
		return errorbank.BadRequest("unknown status flag: " + flag)
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.SetFlag", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.flag", flag),
		attribute.Bool("order.flag_value", value),
	))
	defer span.End()

	err := s.store.UpdateFields(ctx, id, map[string]any{flag: value})
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to update status", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	s.publish(ctx, Event{Type: EventStatusChanged, OrderID: id, Flag: flag, Value: value, At: time.Now().UTC()})
	return nil
}

// Toggle reads the current flag value from the store and writes its
// negation. Two unserialized toggles on the same flag race last-write-wins;
// that is the documented consistency model, not a defect to compensate for
// here.
func (s *Service) Toggle(ctx context.Context, id, flag string) (bool, error) {
	if !entity.ValidFlag(flag) {
		return false, errorbank.BadRequest("unknown status flag: " + flag)
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Toggle", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.flag", flag),
	))
	defer span.End()

	order, err := s.store.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return false, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	current, _ := order.Flag(flag)
	if err := s.SetFlag(ctx, id, flag, !current); err != nil {
		return false, err
	}
	return !current, nil
}

// Delete permanently removes an order. Deleted orders leave the listing for
// good; there is no undo.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	s.invalidateList(ctx)
	s.publish(ctx, Event{Type: EventDeleted, OrderID: id, At: time.Now().UTC()})
	return nil
}

func (s *Service) listFromCache(ctx context.Context) ([]entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, listCacheKey)
	if err != nil {
		return nil, err
	}
	var orders []entity.Order
	if err := json.Unmarshal(bytes, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) storeListInCache(ctx context.Context, orders []entity.Order) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL)
}

func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("orders cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, event Event) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte("order-"+event.OrderID), payload); err != nil {
		s.logger.Error("publish order event", zap.String("type", event.Type), zap.Error(err))
	}
}
