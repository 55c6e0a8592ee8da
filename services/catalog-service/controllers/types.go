package controllers

import (
	"context"
	"time"

	"github.com/lumora-candles/backend/services/catalog-service/models"
	"github.com/lumora-candles/backend/services/catalog-service/services"
)

// CatalogServiceAPI is the surface the controller needs from the service
// layer, kept as an interface so handler tests can run against a fake.
type CatalogServiceAPI interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, params services.ListProductsParams) ([]models.Product, int64, error)
	CreateProduct(ctx context.Context, req services.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddReview(ctx context.Context, productID string, req services.ReviewRequest) (*models.Product, error)
	GeneratePresignedUpload(ctx context.Context, filename, contentType string, expiry time.Duration) (*services.PresignedUpload, error)
}
