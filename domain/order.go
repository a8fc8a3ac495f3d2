package domain

import "time"

// OrderStatus tracks an order through the delivery pipeline.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known pipeline states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer order as reported by the upstream API.
type Order struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"customerId"`
	CustomerName      string      `json:"customerName"`
	CustomerEmail     string      `json:"customerEmail"`
	CustomerPhone     string      `json:"customerPhone"`
	Items             []OrderItem `json:"items"`
	Status            OrderStatus `json:"status"`
	Total             float64     `json:"total"`
	Subtotal          float64     `json:"subtotal"`
	Tax               float64     `json:"tax"`
	Fees              float64     `json:"fees"`
	CreatedAt         time.Time   `json:"createdAt"`
	DeliveryAddress   string      `json:"deliveryAddress,omitempty"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status string
	Limit  int
}
