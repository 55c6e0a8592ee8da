package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/catalog-service/models"
	"github.com/lumora-candles/backend/services/catalog-service/services"
)

type fakeCatalogService struct {
	products map[string]models.Product

	lastListParams services.ListProductsParams
	listCalled     int
	createCalled   int
}

func newFakeCatalogService() *fakeCatalogService {
	return &fakeCatalogService{products: make(map[string]models.Product)}
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.Validation("Invalid product ID", err)
	}
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product not found")
	}
	return &p, nil
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, params services.ListProductsParams) ([]models.Product, int64, error) {
	f.listCalled++
	f.lastListParams = params
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCatalogService) CreateProduct(ctx context.Context, req services.ProductCreateRequest) (*models.Product, error) {
	f.createCalled++
	p := models.Product{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
		Stock:    req.Stock,
		Reviews:  []models.Review{},
	}
	f.products[p.ID.Hex()] = p
	return &p, nil
}

func (f *fakeCatalogService) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product not found")
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	f.products[id] = p
	return &p, nil
}

func (f *fakeCatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return apperrors.NotFound("Product not found")
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogService) AddReview(ctx context.Context, productID string, req services.ReviewRequest) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperrors.NotFound("Product not found")
	}
	p.Reviews = append(p.Reviews, models.Review{Name: req.Name, Rating: req.Rating, Comment: req.Comment})
	f.products[productID] = p
	return &p, nil
}

func (f *fakeCatalogService) GeneratePresignedUpload(ctx context.Context, filename, contentType string, expiry time.Duration) (*services.PresignedUpload, error) {
	return &services.PresignedUpload{UploadURL: "https://s3.test/upload", Key: "products/test.jpg"}, nil
}

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func newTestRouter(fake *fakeCatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewProductController(fake, NewCacheManager(newTestRedisClient()))
	router := gin.New()
	router.GET("/products", controller.GetProducts)
	router.GET("/products/:id", controller.GetProductByID)
	router.POST("/products", controller.CreateProduct)
	router.PUT("/products/:id", controller.UpdateProduct)
	router.DELETE("/products/:id", controller.DeleteProduct)
	router.POST("/products/:id/reviews", controller.AddReview)
	return router
}

func seedFakeProduct(fake *fakeCatalogService, name string) string {
	p := models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    1350,
		Category: models.CategoryScented,
		Reviews:  []models.Review{},
	}
	fake.products[p.ID.Hex()] = p
	return p.ID.Hex()
}

func TestGetProductsPagination(t *testing.T) {
	fake := newFakeCatalogService()
	seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/products?page=2&perPage=5&category=scented", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if fake.listCalled != 1 {
		t.Fatalf("expected list to be called once, got %d", fake.listCalled)
	}
	params := fake.lastListParams
	if params.Page != 2 || params.PerPage != 5 || params.Category != "scented" {
		t.Fatalf("unexpected list params: %+v", params)
	}

	var response map[string]json.RawMessage
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if _, ok := response["meta"]; !ok {
		t.Error("expected meta block in listing response")
	}
}

func TestGetProductsUnknownCategory(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/products?category=incense", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if fake.listCalled != 0 {
		t.Fatalf("expected list not to be called, got %d", fake.listCalled)
	}
}

func TestGetProductByIDMissingReturnsNull(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != "null" {
		t.Errorf("expected null body, got %q", body)
	}
}

func TestGetProductByIDMalformed(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/products/garbage", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	body := `{"name":"Vanilla Bean","price":1850,"category":"scented","image":"https://cdn.example.com/v.jpg","stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if fake.createCalled != 1 {
		t.Fatalf("expected create to be called once, got %d", fake.createCalled)
	}
}

func TestCreateProductRejectsUnknownField(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	body := `{"name":"Vanilla Bean","price":1850,"category":"scented","image":"x.jpg","stock":10,"isFeatured":true}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if fake.createCalled != 0 {
		t.Fatalf("expected create not to be called, got %d", fake.createCalled)
	}
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	body := `{"name":"Vanilla Bean","price":1850,"category":"incense","image":"x.jpg","stock":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	fake := newFakeCatalogService()
	id := seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	body := `{"name":"Rose Candle XL"}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if fake.products[id].Name != "Rose Candle XL" {
		t.Errorf("expected name update to be applied, got %q", fake.products[id].Name)
	}
}

func TestUpdateProductEmptyBody(t *testing.T) {
	fake := newFakeCatalogService()
	id := seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodPut, "/products/"+id, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	fake := newFakeCatalogService()
	id := seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if _, ok := fake.products[id]; ok {
		t.Error("expected product to be removed")
	}
}

func TestDeleteProductMissing(t *testing.T) {
	fake := newFakeCatalogService()
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+primitive.NewObjectID().Hex(), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestAddReview(t *testing.T) {
	fake := newFakeCatalogService()
	id := seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	body := `{"name":"amara","rating":4,"comment":"lovely scent"}`
	req := httptest.NewRequest(http.MethodPost, "/products/"+id+"/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if len(fake.products[id].Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(fake.products[id].Reviews))
	}
}

func TestAddReviewRatingOutOfRange(t *testing.T) {
	fake := newFakeCatalogService()
	id := seedFakeProduct(fake, "Rose Candle")
	router := newTestRouter(fake)

	body := `{"name":"amara","rating":6,"comment":"too good"}`
	req := httptest.NewRequest(http.MethodPost, "/products/"+id+"/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if len(fake.products[id].Reviews) != 0 {
		t.Fatalf("expected no reviews stored, got %d", len(fake.products[id].Reviews))
	}
}
