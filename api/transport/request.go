package transport

import "github.com/dishboard/console/domain"

// LoginRequest carries the operator's credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OrderStatusRequest moves an order to a new pipeline state.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// CustomerStatusRequest toggles a customer account.
type CustomerStatusRequest struct {
	Status domain.CustomerStatus `json:"status"`
}

// SessionResponse is the login payload answered by the console, including
// where the UI should land next.
type SessionResponse struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
}
