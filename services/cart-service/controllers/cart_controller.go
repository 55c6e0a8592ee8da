package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lumora-candles/backend/services/cart-service/clients"
	"github.com/lumora-candles/backend/services/cart-service/models"
	"github.com/lumora-candles/backend/services/cart-service/store"
	apperrors "github.com/lumora-candles/backend/services/common/errors"
)

const SessionHeader = "X-Session-ID"

// IdempotencyStore records checkout submissions so a retried request returns
// the original order instead of placing a second one.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// CheckoutClient submits a cart to the order service.
type CheckoutClient interface {
	CreateOrder(ctx context.Context, userEmail, paymentMethod string, shipping *clients.ShippingDetails, cart *models.Cart) (string, error)
}

type CartController struct {
	store    *store.CartStore
	orders   CheckoutClient
	idem     IdempotencyStore
	validate *validator.Validate
}

func NewCartController(cartStore *store.CartStore, orders CheckoutClient, idem IdempotencyStore) *CartController {
	return &CartController{
		store:    cartStore,
		orders:   orders,
		idem:     idem,
		validate: validator.New(),
	}
}

type cartView struct {
	SessionID string            `json:"sessionId"`
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func viewOf(cart *models.Cart) cartView {
	return cartView{
		SessionID: cart.SessionID,
		Items:     cart.Items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
		UpdatedAt: cart.UpdatedAt,
	}
}

func sessionID(c *gin.Context) (string, error) {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		return "", apperrors.Validation(SessionHeader+" header is required", nil)
	}
	return id, nil
}

type addItemBody struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type checkoutBody struct {
	UserID        string                   `json:"userId" validate:"required,email"`
	PaymentMethod string                   `json:"paymentMethod" validate:"omitempty,oneof=cod card wallet"`
	Shipping      *clients.ShippingDetails `json:"shippingDetails"`
}

func (cc *CartController) decodeStrict(body io.Reader, dst interface{}) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body: "+err.Error(), err)
	}
	if err := cc.validate.Struct(dst); err != nil {
		return apperrors.Validation("Validation failed: "+err.Error(), err)
	}
	return nil
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := cc.store.Get(c.Request.Context(), sid)
	if err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}
	c.JSON(http.StatusOK, viewOf(cart))
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var body addItemBody
	if err := cc.decodeStrict(c.Request.Body, &body); err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := cc.store.AddItem(c.Request.Context(), sid, models.CartItem{
		ProductID: body.ProductID,
		Name:      body.Name,
		Price:     body.Price,
		Image:     body.Image,
		Quantity:  body.Quantity,
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}
	c.JSON(http.StatusOK, viewOf(cart))
}

// RemoveItem handles DELETE /cart/items/:productId. Removing an absent
// product leaves the cart as-is.
func (cc *CartController) RemoveItem(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := cc.store.RemoveItem(c.Request.Context(), sid, c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}
	c.JSON(http.StatusOK, viewOf(cart))
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := cc.store.Clear(c.Request.Context(), sid); err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// WatchCart handles GET /cart/watch as a server-sent event stream. The
// client gets the current cart immediately, then a snapshot after every
// mutation, until it disconnects.
func (cc *CartController) WatchCart(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	snapshots, cancel := cc.store.Subscribe(sid)
	defer cancel()

	cart, err := cc.store.Get(c.Request.Context(), sid)
	if err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("cart", viewOf(cart))
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("cart", viewOf(&snapshot))
			return true
		case <-clientGone:
			return false
		}
	})
}

// Checkout handles POST /cart/checkout. The cart is forwarded to the order
// service and cleared only once the order is accepted. An Idempotency-Key
// header makes retries return the original order.
func (cc *CartController) Checkout(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var body checkoutBody
	if err := cc.decodeStrict(c.Request.Body, &body); err != nil {
		apperrors.Respond(c, err)
		return
	}

	ctx := c.Request.Context()

	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" && cc.idem != nil {
		if orderID, err := cc.idem.GetIdempotency(ctx, idemKey); err == nil && orderID != "" {
			c.JSON(http.StatusOK, gin.H{"orderId": orderID, "replayed": true})
			return
		}
	}

	cart, err := cc.store.Get(ctx, sid)
	if err != nil {
		apperrors.Respond(c, apperrors.Store(err))
		return
	}
	if len(cart.Items) == 0 {
		apperrors.Respond(c, apperrors.Validation("Cart is empty", nil))
		return
	}

	orderID, err := cc.orders.CreateOrder(ctx, body.UserID, body.PaymentMethod, body.Shipping, cart)
	if err != nil {
		apperrors.Respond(c, apperrors.Store(fmt.Errorf("checkout failed: %w", err)))
		return
	}

	if idemKey != "" && cc.idem != nil {
		if err := cc.idem.SetIdempotency(ctx, idemKey, orderID, 24*time.Hour); err != nil {
			zap.L().Warn("Failed to record checkout idempotency key", zap.Error(err))
		}
	}

	if err := cc.store.Clear(ctx, sid); err != nil {
		zap.L().Warn("Order placed but cart not cleared",
			zap.String("sessionId", sid),
			zap.String("orderId", orderID),
			zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}
