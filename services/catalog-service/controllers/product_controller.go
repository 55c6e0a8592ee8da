package controllers

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
)

const presignExpiry = 15 * time.Minute

// ProductController exposes the catalog over HTTP.
type ProductController struct {
	catalog   CatalogServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(catalog CatalogServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{
		catalog:   catalog,
		cache:     cache,
		validator: NewRequestValidator(),
	}
}

// GetProducts handles GET /products with pagination and category filtering.
func (pc *ProductController) GetProducts(c *gin.Context) {
	params, err := ParseListParams(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if cached, ok := pc.cache.GetProductList(c.Request.Context(), params.Page, params.PerPage, params.Category); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := pc.catalog.ListProducts(c.Request.Context(), params)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	totalPages := 0
	if params.PerPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.PerPage)))
	}
	response := map[string]interface{}{
		"products": products,
		"meta": map[string]interface{}{
			"page":       params.Page,
			"perPage":    params.PerPage,
			"total":      total,
			"totalPages": totalPages,
		},
	}

	pc.cache.SetProductListAsync(params.Page, params.PerPage, params.Category, response)
	c.JSON(http.StatusOK, response)
}

// GetProductByID handles GET /products/:id. A missing product responds 200
// with a null body; storefront detail pages probe ids they have not verified
// and treat null as "gone". A malformed id is still a client error.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	if cached, ok := pc.cache.GetProductDetail(c.Request.Context(), id); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	product, err := pc.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusOK, nil)
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if payload, err := json.Marshal(product); err == nil {
		pc.cache.SetProductDetailAsync(id, payload)
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	req, err := pc.validator.ParseCreateProduct(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	product, err := pc.catalog.CreateProduct(c.Request.Context(), *req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	pc.cache.Invalidate("")
	zap.L().Info("Product created",
		zap.String("id", product.ID.Hex()),
		zap.String("name", product.Name))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	updates, err := pc.validator.ParseUpdateProduct(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	product, err := pc.catalog.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	pc.cache.Invalidate(id)
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := pc.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	pc.cache.Invalidate(id)
	zap.L().Info("Product deleted", zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AddReview handles POST /products/:id/reviews.
func (pc *ProductController) AddReview(c *gin.Context) {
	id := c.Param("id")

	req, err := pc.validator.ParseReview(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	product, err := pc.catalog.AddReview(c.Request.Context(), id, *req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	pc.cache.Invalidate(id)
	c.JSON(http.StatusCreated, product)
}

// GetPresignedUpload handles GET /products/uploads/presign. The caller
// uploads the image directly to the object store with the returned URL.
func (pc *ProductController) GetPresignedUpload(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		apperrors.Respond(c, apperrors.Validation("filename query parameter is required", nil))
		return
	}
	contentType := c.DefaultQuery("contentType", "image/jpeg")

	upload, err := pc.catalog.GeneratePresignedUpload(c.Request.Context(), filename, contentType, presignExpiry)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
