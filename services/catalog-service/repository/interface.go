package repository

import (
	"context"
	"errors"

	"github.com/lumora-candles/backend/services/catalog-service/models"
)

// ErrNotFound is returned by both adapters when an identifier does not
// resolve to a product.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows and pages a catalog listing.
type ProductFilter struct {
	Category string // empty matches all
	Page     int
	PerPage  int
}

// ProductRepo defines the catalog data access. It uses plain Go types so the
// Mongo and DynamoDB adapters are interchangeable.
type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, id string, review models.Review, rating float64) (*models.Product, error)
}
