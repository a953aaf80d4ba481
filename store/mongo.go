package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"maisonlux-backend/models"
)

// MongoStore implements Inventory on top of the shared database handle.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) Product(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var p models.Product
	err = s.DB.Collection("products").FindOne(ctx, bson.M{"_id": oid, "active": true}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ReserveStock relies on a single conditional update: the filter only matches
// while enough stock remains, so concurrent checkouts for the last unit can
// never both decrement.
func (s *MongoStore) ReserveStock(ctx context.Context, productID string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrProductNotFound
	}

	result, err := s.DB.Collection("products").UpdateOne(ctx,
		bson.M{"_id": oid, "active": true, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &InsufficientStockError{ProductID: productID}
	}
	return nil
}

func (s *MongoStore) ReleaseStock(ctx context.Context, productID string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrProductNotFound
	}

	_, err = s.DB.Collection("products").UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	return err
}

func (s *MongoStore) InsertOrder(ctx context.Context, order *models.Order) error {
	result, err := s.DB.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderCode
		}
		return fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (s *MongoStore) ClearCart(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}
	_, err = s.DB.Collection("carts").DeleteMany(ctx, bson.M{"user_id": oid})
	return err
}
