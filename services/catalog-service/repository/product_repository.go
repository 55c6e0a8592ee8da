package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumora-candles/backend/services/catalog-service/models"
)

// MongoProductRepo implements ProductRepo on the products collection.
type MongoProductRepo struct {
	collection *mongo.Collection
}

func NewMongoProductRepo(db *mongo.Database) *MongoProductRepo {
	return &MongoProductRepo{
		collection: db.Collection("products"),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (r *MongoProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepo) Find(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.PerPage > 0 {
		findOptions.SetLimit(int64(filter.PerPage))
		findOptions.SetSkip(int64((filter.Page - 1) * filter.PerPage))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepo) Create(ctx context.Context, product *models.Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

func (r *MongoProductRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range updates {
		set[k] = v
	}
	delete(set, "_id")
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview pushes an embedded review and replaces the aggregate rating in a
// single document write.
func (r *MongoProductRepo) AddReview(ctx context.Context, id string, review models.Review, rating float64) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"rating":    rating,
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}
