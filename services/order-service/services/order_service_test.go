package services

import (
	"context"
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/order-service/models"
)

// fakeOrderRepo is an in-memory repository.OrderRepository.
type fakeOrderRepo struct {
	orders map[primitive.ObjectID]models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]models.Order)}
}

func (f *fakeOrderRepo) Insert(ctx context.Context, order *models.Order) error {
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, limit int64) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByUser(ctx context.Context, email string, limit int64) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &o, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	o.Status = status
	f.orders[id] = o
	return &o, nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := f.orders[id]; !ok {
		return 0, nil
	}
	delete(f.orders, id)
	return 1, nil
}

type fakeProducer struct {
	published [][]byte
}

func (p *fakeProducer) Publish(ctx context.Context, key, value []byte) error {
	p.published = append(p.published, append([]byte(nil), value...))
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		UserID: "jane@example.com",
		Items: []OrderItemRequest{
			{Name: "Rose Candle", Qty: 2, Image: "rose.jpg", Price: 1350},
		},
		TotalPrice: 2700,
	}
}

func TestCreateOrderInitialStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	producer := &fakeProducer{}
	svc := NewOrderService(repo, producer, false)

	order, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if order.Status != models.StatusProcessing {
		t.Errorf("new order status = %q, want %q", order.Status, models.StatusProcessing)
	}
	if order.PaymentMethod != models.PaymentCOD {
		t.Errorf("default payment method = %q, want %q", order.PaymentMethod, models.PaymentCOD)
	}
	if order.ID.IsZero() {
		t.Error("expected server-assigned order ID")
	}
	if order.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}

	if len(producer.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(producer.published))
	}
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(producer.published[0], &event); err != nil {
		t.Fatalf("published event is invalid JSON: %v", err)
	}
	if event.OrderID != order.ID.Hex() {
		t.Errorf("event order id = %q, want %q", event.OrderID, order.ID.Hex())
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), nil, false)

	req := validRequest()
	req.Items = nil

	_, err := svc.Create(context.Background(), req)
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func TestCreateOrderStrictValidation(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), nil, true)

	t.Run("total mismatch", func(t *testing.T) {
		req := validRequest()
		req.TotalPrice = 1000
		if _, err := svc.Create(context.Background(), req); !apperrors.IsValidation(err) {
			t.Fatalf("expected validation error for total mismatch, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		req := validRequest()
		req.Items[0].Qty = 0
		if _, err := svc.Create(context.Background(), req); !apperrors.IsValidation(err) {
			t.Fatalf("expected validation error for zero quantity, got %v", err)
		}
	})

	t.Run("matching total passes", func(t *testing.T) {
		if _, err := svc.Create(context.Background(), validRequest()); err != nil {
			t.Fatalf("expected strict create to pass, got %v", err)
		}
	})
}

func TestOrderRoundTrip(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil, false)

	created, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	fetched, err := svc.Get(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if len(fetched.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(fetched.Items))
	}
	item := fetched.Items[0]
	if item.Name != "Rose Candle" || item.Qty != 2 || item.Price != 1350 {
		t.Errorf("line item mismatch: %+v", item)
	}
	if fetched.TotalPrice != 2700 {
		t.Errorf("total price = %v, want 2700", fetched.TotalPrice)
	}
}

func TestUpdateStatusCanonicalizes(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil, false)

	created, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID.Hex(), "  hand over for delivery ")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.StatusHandOver {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusHandOver)
	}

	stored := repo.orders[created.ID]
	if stored.Status != models.StatusHandOver {
		t.Errorf("persisted status = %q, want %q", stored.Status, models.StatusHandOver)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil, false)

	created, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), created.ID.Hex(), "shipped"); !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored := repo.orders[created.ID]
	if stored.Status != models.StatusProcessing {
		t.Errorf("stored status changed to %q after rejected transition", stored.Status)
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), nil, false)

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "Completed")
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateStatusMalformedID(t *testing.T) {
	svc := NewOrderService(newFakeOrderRepo(), nil, false)

	_, err := svc.UpdateStatus(context.Background(), "not-a-hex-id", "Completed")
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil, false)

	if err := svc.Delete(context.Background(), primitive.NewObjectID().Hex()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found for missing order, got %v", err)
	}

	created, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID.Hex()); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID.Hex()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}
