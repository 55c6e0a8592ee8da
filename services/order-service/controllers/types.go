package controllers

import (
	"context"

	"github.com/lumora-candles/backend/services/order-service/models"
	"github.com/lumora-candles/backend/services/order-service/services"
)

// OrderServiceAPI is the service surface the controllers depend on.
type OrderServiceAPI interface {
	Create(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, error)
	ListAll(ctx context.Context, limit int64) ([]models.Order, error)
	ListByUser(ctx context.Context, email string, limit int64) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, requested string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}
