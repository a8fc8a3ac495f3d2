package domain

import "time"

// Feedback is a customer review, optionally tied to an order.
type Feedback struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
	OrderID      string    `json:"orderId,omitempty"`
}
