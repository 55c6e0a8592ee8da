package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods accepted at checkout.
const (
	PaymentCOD    = "cod"
	PaymentCard   = "card"
	PaymentWallet = "wallet"

	DefaultPaymentMethod = PaymentCOD
)

// OrderItem is a snapshot of a product at order time, not a live reference.
type OrderItem struct {
	Name  string  `json:"name" bson:"name"`
	Qty   int     `json:"qty" bson:"qty"`
	Image string  `json:"image" bson:"image"`
	Price float64 `json:"price" bson:"price"`
}

// ShippingDetails are optional at the schema level; the storefront may submit
// any subset.
type ShippingDetails struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
}

// Order is a single checkout submission. Line items are immutable after
// creation; only Status is mutated afterwards.
type Order struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID        string             `json:"userId" bson:"userId"` // customer email
	PaymentMethod string             `json:"paymentMethod" bson:"paymentMethod"`
	Shipping      ShippingDetails    `json:"shippingDetails" bson:"shippingDetails"`
	Items         []OrderItem        `json:"orderedItems" bson:"orderedItems"`
	TotalPrice    float64            `json:"totalPrice" bson:"totalPrice"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OrderCreatedEvent is the payload published to Kafka after an order is
// persisted.
type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	PaymentMethod string    `json:"payment_method"`
	TotalPrice    float64   `json:"total_price"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}
