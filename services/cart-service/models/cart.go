package models

import "time"

// CartItem is one line in a session cart. Quantity accumulates when the same
// product is added again.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Total is the sum of price times quantity across all lines, recomputed on
// every call rather than stored.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
