package order

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderdesk/internal/entity"
)

// mongoStore keeps orders as documents in a mongo collection. This is the
// driver closest to the deployment the dashboard was built against.
type mongoStore struct {
	coll *mongo.Collection
}

func newMongoStore(coll *mongo.Collection) *mongoStore {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderStore.List")
	defer span.End()

	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []entity.Order
	if err := cur.All(ctx, &orders); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}
	return orders, nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderStore.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, err
	}
	return order, nil
}

func (s *mongoStore) Insert(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	if order.ID == "" {
		order.ID = primitive.NewObjectID().Hex()
	}
	ctx, span := repoTracer.Start(ctx, "OrderStore.Insert", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	_, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

func (s *mongoStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	ctx, span := repoTracer.Start(ctx, "OrderStore.UpdateFields", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	set := bson.M{}
	for field, value := range fields {
		set[field] = value
	}

	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if res.MatchedCount == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "OrderStore.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if res.DeletedCount == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
