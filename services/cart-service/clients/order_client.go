package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lumora-candles/backend/services/cart-service/models"
)

// ShippingDetails mirrors the order service's shipping block.
type ShippingDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

type orderItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
}

type createOrderPayload struct {
	UserID        string           `json:"userId"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Shipping      *ShippingDetails `json:"shippingDetails,omitempty"`
	Items         []orderItem      `json:"orderedItems"`
	TotalPrice    float64          `json:"totalPrice"`
}

type createOrderResponse struct {
	ID string `json:"_id"`
}

// OrderClient submits checkouts to the order service.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrder posts the cart as an order and returns the created order id.
func (oc *OrderClient) CreateOrder(ctx context.Context, userEmail, paymentMethod string, shipping *ShippingDetails, cart *models.Cart) (string, error) {
	payload := createOrderPayload{
		UserID:        userEmail,
		PaymentMethod: paymentMethod,
		Shipping:      shipping,
		TotalPrice:    cart.Total(),
	}
	for _, item := range cart.Items {
		payload.Items = append(payload.Items, orderItem{
			Name:  item.Name,
			Qty:   item.Quantity,
			Image: item.Image,
			Price: item.Price,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oc.baseURL+"/orders/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := oc.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("order service returned %d", resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}
