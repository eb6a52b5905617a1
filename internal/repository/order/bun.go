package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderdesk/internal/database"
	"github.com/Additional-Code/orderdesk/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/orderdesk/repository/order")

// columnFor maps document field names onto relational columns. Only fields
// listed here may be partially updated through the sql driver.
var columnFor = map[string]string{
	entity.FlagHavePaid: "have_paid",
	entity.FlagHaveSend: "have_send",
	"note":              "note",
	"bankCode":          "bank_code",
	"storeId":           "store_id",
}

// bunStore keeps orders in a relational table behind Bun, reads on the
// reader pool and writes on the writer.
type bunStore struct {
	writer *bun.DB
	reader *bun.DB
}

func newBunStore(conns *database.Connections) *bunStore {
	return &bunStore{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

func (s *bunStore) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderStore.List")
	defer span.End()

	var orders []entity.Order
	err := s.reader.NewSelect().Model(&orders).
		OrderExpr("created_at DESC").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

func (s *bunStore) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderStore.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := s.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

func (s *bunStore) Insert(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	ctx, span := repoTracer.Start(ctx, "OrderStore.Insert", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	_, err := s.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

func (s *bunStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	ctx, span := repoTracer.Start(ctx, "OrderStore.UpdateFields", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	q := s.writer.NewUpdate().Model((*entity.Order)(nil)).Where("id = ?", id)
	for field, value := range fields {
		column, ok := columnFor[field]
		if !ok {
			return fmt.Errorf("field %q is not updatable", field)
		}
		q = q.Set("? = ?", bun.Ident(column), value)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

func (s *bunStore) Delete(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "OrderStore.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	res, err := s.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
