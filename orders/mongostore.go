package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"solemart/apperr"
	"solemart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists orders in a single collection with a unique index on
// orderNumber. The index is the backstop for order-number races: a
// duplicate insert surfaces as ConflictError and the ledger retries.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// InitIndexes creates the unique orderNumber index plus the read-path
// indexes. Call once at startup.
func (s *MongoStore) InitIndexes(ctx context.Context) error {
	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"orderNumber": 1},
			Options: options.Index().SetUnique(true).SetName("unique_order_number"),
		},
		{
			Keys:    bson.D{{Key: "userid", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
		{
			Keys:    bson.M{"status": 1},
			Options: options.Index().SetName("status"),
		},
	}
	_, err := s.col.Indexes().CreateMany(ctx, idxs)
	return err
}

// helper to detect duplicate key errors from Mongo insert
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

func (s *MongoStore) Insert(ctx context.Context, o *models.Order) error {
	_, err := s.col.InsertOne(ctx, o)
	if isDuplicateKeyError(err) {
		return apperr.Conflict("order number %s already taken", o.OrderNumber)
	}
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) Update(ctx context.Context, o *models.Order) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"orderid": o.OrderID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order", o.OrderID)
	}
	return nil
}

// LastSequence finds the day's lexicographically largest orderNumber and
// parses its trailing four digits. Zero when the day has no orders yet.
func (s *MongoStore) LastSequence(ctx context.Context, dayPrefix string) (int, error) {
	filter := bson.M{"orderNumber": bson.M{"$regex": primitive.Regex{Pattern: "^" + dayPrefix}}}
	opts := options.FindOne().SetSort(bson.M{"orderNumber": -1})

	var last models.Order
	err := s.col.FindOne(ctx, filter, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(last.OrderNumber) < 4 {
		return 0, fmt.Errorf("malformed order number: %q", last.OrderNumber)
	}
	return strconv.Atoi(last.OrderNumber[len(last.OrderNumber)-4:])
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.col.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *MongoStore) Recent(ctx context.Context, n int) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(n))
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (s *MongoStore) CompletedRevenue(ctx context.Context) (float64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StatusCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
