package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/order-service/kafka"
	"github.com/lumora-candles/backend/services/order-service/models"
	"github.com/lumora-candles/backend/services/order-service/repository"
)

// CreateOrderRequest is the typed, validated checkout submission. Line items
// are captured as submitted; the service trusts the client-computed total
// unless strict validation is enabled.
type CreateOrderRequest struct {
	UserID        string             `json:"userId" validate:"required,email"`
	PaymentMethod string             `json:"paymentMethod" validate:"omitempty,oneof=cod card wallet"`
	Shipping      *ShippingRequest   `json:"shippingDetails"`
	Items         []OrderItemRequest `json:"orderedItems" validate:"required,min=1,dive"`
	TotalPrice    float64            `json:"totalPrice" validate:"required"`
}

type ShippingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

type OrderItemRequest struct {
	Name  string  `json:"name" validate:"required"`
	Qty   int     `json:"qty" validate:"required"`
	Image string  `json:"image"`
	Price float64 `json:"price" validate:"required"`
}

// OrderService owns order creation, retrieval, deletion and the status
// lifecycle.
type OrderService struct {
	orderRepo repository.OrderRepository
	producer  kafka.ProducerAPI
	strict    bool
}

// NewOrderService wires the service. producer may be nil, in which case no
// events are published. strict enables total/quantity cross-validation on
// creation.
func NewOrderService(orderRepo repository.OrderRepository, producer kafka.ProducerAPI, strict bool) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		producer:  producer,
		strict:    strict,
	}
}

func parseOrderID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid order ID", err)
	}
	return oid, nil
}

// Create persists a checkout submission with the initial Processing status
// and publishes a best-effort order.created event.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("At least one line item is required", nil)
	}

	if s.strict {
		if err := s.crossValidate(req); err != nil {
			return nil, err
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.DefaultPaymentMethod
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			Name:  item.Name,
			Qty:   item.Qty,
			Image: item.Image,
			Price: item.Price,
		})
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        req.UserID,
		PaymentMethod: paymentMethod,
		Items:         items,
		TotalPrice:    req.TotalPrice,
		Status:        models.StatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Shipping != nil {
		order.Shipping = models.ShippingDetails{
			Name:    req.Shipping.Name,
			Email:   req.Shipping.Email,
			Phone:   req.Shipping.Phone,
			Address: req.Shipping.Address,
			City:    req.Shipping.City,
			Zip:     req.Shipping.Zip,
		}
	}

	if err := s.orderRepo.Insert(ctx, order); err != nil {
		return nil, apperrors.Store(err)
	}

	s.publishCreated(order)
	return order, nil
}

// crossValidate enforces the optional strict checks: positive quantities and
// prices, and a submitted total matching the line-item sum.
func (s *OrderService) crossValidate(req *CreateOrderRequest) error {
	var sum float64
	for _, item := range req.Items {
		if item.Qty <= 0 {
			return apperrors.Validation("Item quantity must be positive", nil)
		}
		if item.Price <= 0 {
			return apperrors.Validation("Item price must be positive", nil)
		}
		sum += item.Price * float64(item.Qty)
	}
	if math.Abs(sum-req.TotalPrice) > 0.01 {
		return apperrors.Validation(
			fmt.Sprintf("Total price %.2f does not match line-item sum %.2f", req.TotalPrice, sum), nil)
	}
	return nil
}

// publishCreated emits the order.created event. Failures are logged and never
// surface to the caller.
func (s *OrderService) publishCreated(order *models.Order) {
	if s.producer == nil {
		return
	}

	event := models.OrderCreatedEvent{
		OrderID:       order.ID.Hex(),
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		TotalPrice:    order.TotalPrice,
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("Failed to marshal order.created event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.producer.Publish(ctx, []byte(event.OrderID), payload); err != nil {
		zap.L().Warn("Failed to publish order.created event",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

// ListAll returns every order newest-first.
func (s *OrderService) ListAll(ctx context.Context, limit int64) ([]models.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx, limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return orders, nil
}

// ListByUser returns a customer's orders newest-first, matched by exact
// equality on the email string.
func (s *OrderService) ListByUser(ctx context.Context, email string, limit int64) ([]models.Order, error) {
	orders, err := s.orderRepo.FindByUser(ctx, email, limit)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return orders, nil
}

// Get fetches a single order by identifier.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, apperrors.Store(err)
	}
	return order, nil
}

// UpdateStatus transitions an order to the canonical form of the requested
// status. Any allowed status may be set from any other. No notification,
// audit log or inventory adjustment happens here.
func (s *OrderService) UpdateStatus(ctx context.Context, id, requested string) (*models.Order, error) {
	oid, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}

	canonical, ok := models.CanonicalStatus(requested)
	if !ok {
		return nil, apperrors.Validation(
			fmt.Sprintf("Invalid status %q; allowed values: %v", requested, models.AllowedStatuses), nil)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, oid, canonical)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, apperrors.Store(err)
	}
	return order, nil
}

// Delete removes an order permanently. No inventory restoration happens,
// since none was decremented at creation.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	oid, err := parseOrderID(id)
	if err != nil {
		return err
	}

	deleted, err := s.orderRepo.Delete(ctx, oid)
	if err != nil {
		return apperrors.Store(err)
	}
	if deleted == 0 {
		return apperrors.NotFound("Order not found")
	}
	return nil
}
