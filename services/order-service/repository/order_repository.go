package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumora-candles/backend/services/order-service/models"
)

// OrderRepository defines the order data access used by the service layer.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindAll(ctx context.Context, limit int64) ([]models.Order, error)
	FindByUser(ctx context.Context, email string, limit int64) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// MongoOrderRepository implements OrderRepository on the orders collection.
// Every write is a single-document operation; no multi-document transactions
// are used.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) FindAll(ctx context.Context, limit int64) ([]models.Order, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *MongoOrderRepository) FindByUser(ctx context.Context, email string, limit int64) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userId": email}, limit)
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus replaces the status field and returns the updated document.
// Last write wins under concurrent updates; no version token is held.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
