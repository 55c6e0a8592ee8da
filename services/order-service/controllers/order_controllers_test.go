package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/order-service/models"
	"github.com/lumora-candles/backend/services/order-service/services"
)

type fakeOrderService struct {
	createFn       func(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, error)
	updateStatusFn func(ctx context.Context, id, requested string) (*models.Order, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakeOrderService) Create(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return &models.Order{ID: primitive.NewObjectID(), Status: models.StatusProcessing}, nil
}

func (f *fakeOrderService) ListAll(ctx context.Context, limit int64) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (f *fakeOrderService) ListByUser(ctx context.Context, email string, limit int64) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (f *fakeOrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.Validation("Invalid order ID", err)
	}
	return nil, apperrors.NotFound("Order not found")
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id, requested string) (*models.Order, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, requested)
	}
	return nil, apperrors.NotFound("Order not found")
}

func (f *fakeOrderService) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newTestRouter(svc OrderServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	oc := NewOrderController(svc)
	r.POST("/orders", oc.CreateOrder)
	r.GET("/orders/:id", oc.GetOrderByID)
	r.PATCH("/orders/:id/status", oc.UpdateOrderStatus)
	r.DELETE("/orders/:id", oc.DeleteOrder)
	return r
}

func TestCreateOrderReturns201(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	body := `{
		"userId": "jane@example.com",
		"orderedItems": [{"name": "Rose Candle", "qty": 2, "image": "rose.jpg", "price": 1350}],
		"totalPrice": 2700
	}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var out models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a valid order: %v", err)
	}
	if out.Status != models.StatusProcessing {
		t.Errorf("status = %q, want %q", out.Status, models.StatusProcessing)
	}
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	body := `{"orderedItems": [], "totalPrice": 0}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	body := `{
		"userId": "jane@example.com",
		"orderedItems": [{"name": "Rose Candle", "qty": 2, "image": "rose.jpg", "price": 1350}],
		"totalPrice": 2700,
		"isAdmin": true
	}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestGetOrderMalformedID(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/zzz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/"+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateStatusMissingBody(t *testing.T) {
	router := newTestRouter(&fakeOrderService{})

	req := httptest.NewRequest(http.MethodPatch, "/orders/"+primitive.NewObjectID().Hex()+"/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestUpdateStatusPassesRequestedValue(t *testing.T) {
	var gotStatus string
	svc := &fakeOrderService{
		updateStatusFn: func(ctx context.Context, id, requested string) (*models.Order, error) {
			gotStatus = requested
			return &models.Order{Status: models.StatusCompleted}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"status": "completed"}`
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+primitive.NewObjectID().Hex()+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if gotStatus != "completed" {
		t.Errorf("service received status %q, want raw requested value", gotStatus)
	}
}
