package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/lumora-candles/backend/services/order-service/services"
)

// RequestValidator decodes request bodies into typed records, rejecting
// unknown fields and schema violations before anything reaches the service
// layer.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseCreateOrder decodes and validates a checkout submission.
func (rv *RequestValidator) ParseCreateOrder(c *gin.Context) (*services.CreateOrderRequest, error) {
	var req services.CreateOrderRequest

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("malformed request body: %w", err)
	}

	if err := rv.validate.Struct(&req); err != nil {
		return nil, formatValidationError(err)
	}
	return &req, nil
}

// ParseStatusUpdate decodes a status-transition request body.
func (rv *RequestValidator) ParseStatusUpdate(c *gin.Context) (string, error) {
	var body struct {
		Status string `json:"status"`
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("malformed request body: %w", err)
	}
	if strings.TrimSpace(body.Status) == "" {
		return "", errors.New("status is required")
	}
	return body.Status, nil
}

// formatValidationError flattens validator output into a client-readable
// message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must contain at least %s entry", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
