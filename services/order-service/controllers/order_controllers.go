package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lumora-candles/backend/services/common/errors"
)

// MaxListLimit caps the optional ?limit query on list endpoints.
const MaxListLimit = 500

type OrderController struct {
	orderService OrderServiceAPI
	validator    *RequestValidator
}

func NewOrderController(orderService OrderServiceAPI) *OrderController {
	return &OrderController{
		orderService: orderService,
		validator:    NewRequestValidator(),
	}
}

// CreateOrder materializes a checkout submission as a persisted order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	req, err := oc.validator.ParseCreateOrder(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation(err.Error(), err))
		return
	}

	order, err := oc.orderService.Create(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetUserOrders lists a single customer's orders, newest first.
func (oc *OrderController) GetUserOrders(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		apperrors.Respond(c, apperrors.Validation("Customer email is required", nil))
		return
	}

	orders, err := oc.orderService.ListByUser(c.Request.Context(), email, parseListLimit(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetAllOrders lists every order for administrative review, newest first.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.orderService.ListAll(c.Request.Context(), parseListLimit(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderByID fetches a single order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus transitions an order's status to the canonical form of
// the requested value.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	requested, err := oc.validator.ParseStatusUpdate(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation(err.Error(), err))
		return
	}

	order, err := oc.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), requested)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order permanently.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if err := oc.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func parseListLimit(c *gin.Context) int64 {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 1 {
		return 0
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}
