package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/catalog-service/models"
	"github.com/lumora-candles/backend/services/catalog-service/services"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// RequestValidator decodes and validates catalog request bodies. Unknown
// fields are rejected so malformed shapes never reach the store.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

type createProductBody struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
}

type updateProductBody struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image" validate:"omitempty,min=1"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

type reviewBody struct {
	Name    string `json:"name" validate:"required,min=1"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=1"`
	Image   string `json:"image"`
}

func (rv *RequestValidator) decodeStrict(body io.Reader, dst interface{}) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body: "+err.Error(), err)
	}
	return nil
}

// ParseCreateProduct decodes and validates a product create submission.
func (rv *RequestValidator) ParseCreateProduct(c *gin.Context) (*services.ProductCreateRequest, error) {
	var body createProductBody
	if err := rv.decodeStrict(c.Request.Body, &body); err != nil {
		return nil, err
	}
	if err := rv.validate.Struct(&body); err != nil {
		return nil, apperrors.Validation(formatValidationError(err), err)
	}
	if !models.IsValidCategory(body.Category) {
		return nil, apperrors.Validation("Unknown category: "+body.Category, nil)
	}
	return &services.ProductCreateRequest{
		Name:        strings.TrimSpace(body.Name),
		Price:       body.Price,
		Category:    body.Category,
		Image:       body.Image,
		Stock:       body.Stock,
		Description: body.Description,
	}, nil
}

// ParseUpdateProduct decodes a partial product update into a field map. Only
// fields present in the body are applied.
func (rv *RequestValidator) ParseUpdateProduct(c *gin.Context) (map[string]interface{}, error) {
	var body updateProductBody
	if err := rv.decodeStrict(c.Request.Body, &body); err != nil {
		return nil, err
	}
	if err := rv.validate.Struct(&body); err != nil {
		return nil, apperrors.Validation(formatValidationError(err), err)
	}
	if body.Category != nil && !models.IsValidCategory(*body.Category) {
		return nil, apperrors.Validation("Unknown category: "+*body.Category, nil)
	}

	updates := make(map[string]interface{})
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Price != nil {
		updates["price"] = *body.Price
	}
	if body.Category != nil {
		updates["category"] = *body.Category
	}
	if body.Image != nil {
		updates["image"] = *body.Image
	}
	if body.Stock != nil {
		updates["stock"] = *body.Stock
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("No updatable fields in request", nil)
	}
	return updates, nil
}

// ParseReview decodes and validates a review submission.
func (rv *RequestValidator) ParseReview(c *gin.Context) (*services.ReviewRequest, error) {
	var body reviewBody
	if err := rv.decodeStrict(c.Request.Body, &body); err != nil {
		return nil, err
	}
	if err := rv.validate.Struct(&body); err != nil {
		return nil, apperrors.Validation(formatValidationError(err), err)
	}
	return &services.ReviewRequest{
		Name:    strings.TrimSpace(body.Name),
		Rating:  body.Rating,
		Comment: body.Comment,
		Image:   body.Image,
	}, nil
}

// ParseListParams reads pagination and category filtering from the query
// string.
func ParseListParams(c *gin.Context) (services.ListProductsParams, error) {
	params := services.ListProductsParams{Page: 1, PerPage: DefaultPerPage}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, apperrors.Validation("Invalid page parameter", err)
		}
		params.Page = page
	}
	if raw := c.Query("perPage"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return params, apperrors.Validation("Invalid perPage parameter", err)
		}
		if perPage > MaxPerPage {
			perPage = MaxPerPage
		}
		params.PerPage = perPage
	}
	if category := c.Query("category"); category != "" {
		if !models.IsValidCategory(category) {
			return params, apperrors.Validation("Unknown category: "+category, nil)
		}
		params.Category = category
	}
	return params, nil
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Validation failed on: " + strings.Join(fields, ", ")
}
