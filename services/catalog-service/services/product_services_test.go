package services

import (
	"context"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/catalog-service/models"
	"github.com/lumora-candles/backend/services/catalog-service/repository"
)

type fakeProductRepo struct {
	products map[string]models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]models.Product)}
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) Find(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	f.products[product.ID.Hex()] = *product
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if price, ok := updates["price"].(float64); ok {
		p.Price = price
	}
	f.products[id] = p
	return &p, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) AddReview(ctx context.Context, id string, review models.Review, rating float64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Reviews = append(p.Reviews, review)
	p.Rating = rating
	f.products[id] = p
	return &p, nil
}

func seedProduct(repo *fakeProductRepo, name string, price float64, ratings ...int) string {
	id := primitive.NewObjectID()
	reviews := make([]models.Review, 0, len(ratings))
	for _, r := range ratings {
		reviews = append(reviews, models.Review{ID: primitive.NewObjectID(), Name: "buyer", Rating: r, Comment: "ok"})
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	rating := 0.0
	if len(ratings) > 0 {
		rating = float64(sum) / float64(len(ratings))
	}
	repo.products[id.Hex()] = models.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: models.CategoryScented,
		Reviews:  reviews,
		Rating:   rating,
	}
	return id.Hex()
}

func TestCreateProductDefaults(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil, S3Config{})

	product, err := svc.CreateProduct(context.Background(), ProductCreateRequest{
		Name:     "Vanilla Bean",
		Price:    1850,
		Category: models.CategoryScented,
		Image:    "https://cdn.example.com/vanilla.jpg",
		Stock:    12,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if product.ID.IsZero() {
		t.Error("expected a generated product ID")
	}
	if product.Reviews == nil || len(product.Reviews) != 0 {
		t.Errorf("expected empty reviews slice, got %v", product.Reviews)
	}
	if product.Rating != 0 {
		t.Errorf("expected zero rating, got %v", product.Rating)
	}
	if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestGetProductValidatesID(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, S3Config{})

	if _, err := svc.GetProduct(context.Background(), "not-a-hex-id"); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for malformed id, got %v", err)
	}
}

func TestGetProductMissing(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, S3Config{})

	if _, err := svc.GetProduct(context.Background(), primitive.NewObjectID().Hex()); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestAddReviewRecomputesRating(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil, S3Config{})
	id := seedProduct(repo, "Rose Candle", 1350, 4, 5)

	updated, err := svc.AddReview(context.Background(), id, ReviewRequest{
		Name:    "amara",
		Rating:  3,
		Comment: "burns fast",
	})
	if err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	if len(updated.Reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(updated.Reviews))
	}
	want := float64(4+5+3) / 3
	if math.Abs(updated.Rating-want) > 1e-9 {
		t.Errorf("expected rating %v, got %v", want, updated.Rating)
	}
	if updated.Reviews[2].ID.IsZero() {
		t.Error("expected review to receive a generated ID")
	}
}

func TestAddReviewFirstReview(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil, S3Config{})
	id := seedProduct(repo, "Pillar Trio", 2400)

	updated, err := svc.AddReview(context.Background(), id, ReviewRequest{
		Name:    "dev",
		Rating:  5,
		Comment: "lovely",
	})
	if err != nil {
		t.Fatalf("AddReview failed: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("expected rating 5 after first review, got %v", updated.Rating)
	}
}

func TestUpdateProductEmptyUpdates(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil, S3Config{})
	id := seedProduct(repo, "Jar Candle", 990)

	if _, err := svc.UpdateProduct(context.Background(), id, map[string]interface{}{}); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for empty updates, got %v", err)
	}
}

func TestDeleteProductMissing(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, S3Config{})

	if err := svc.DeleteProduct(context.Background(), primitive.NewObjectID().Hex()); !apperrors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestPresignedUploadUnconfigured(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil, S3Config{})

	if _, err := svc.GeneratePresignedUpload(context.Background(), "a.jpg", "image/jpeg", 0); err == nil {
		t.Error("expected error when S3 is not configured")
	}
}
