package domain

import "time"

// CustomerStatus marks whether a customer account is in good standing.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

// Customer is a restaurant patron record.
type Customer struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Language    string         `json:"language"`
	Country     string         `json:"country"`
	Status      CustomerStatus `json:"status"`
	JoinedAt    time.Time      `json:"joinedAt"`
	TotalOrders int            `json:"totalOrders"`
}

// CustomerPage is one page of a customer listing.
type CustomerPage struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
}

// CustomerFilter narrows and paginates customer listings.
type CustomerFilter struct {
	Page   int
	Limit  int
	Status string
}
