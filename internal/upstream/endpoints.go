package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/dishboard/console/domain"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the upstream's answer to a successful login.
type LoginResult struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// Login exchanges credentials for a session. Invalidates User.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	return mutate[LoginResult](ctx, c, []Tag{TagUser}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPost, "/auth/login", nil, creds)
	})
}

// Logout revokes the session upstream. Invalidates User.
func (c *Client) Logout(ctx context.Context) error {
	_, err := mutate[struct {
		Message string `json:"message"`
	}](ctx, c, []Tag{TagUser}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPost, "/auth/logout", nil, nil)
	})
	return err
}

// DashboardStats returns the landing-view KPI block. Provides Stats.
func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return query[domain.DashboardStats](ctx, c, "getDashboardStats", nil, []Tag{TagStats},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/dashboard/stats", nil, nil)
		})
}

// Orders lists orders, optionally filtered by status and capped at limit.
// Provides Order.
func (c *Client) Orders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	return query[[]domain.Order](ctx, c, "getOrders", filter, []Tag{TagOrder},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/orders", params, nil)
		})
}

// OrderByID fetches one order. Provides Order.
func (c *Client) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	return query[domain.Order](ctx, c, "getOrderById", id, []Tag{TagOrder},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/orders/"+url.PathEscape(id), nil, nil)
		})
}

// UpdateOrderStatus moves an order through the pipeline. Invalidates Order
// and Stats.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, domain.ErrInvalidPayload
	}
	body := map[string]domain.OrderStatus{"status": status}
	return mutate[domain.Order](ctx, c, []Tag{TagOrder, TagStats}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", nil, body)
	})
}

// MenuItems lists menu items, optionally for one category. Provides MenuItem.
func (c *Client) MenuItems(ctx context.Context, category domain.MenuCategory) ([]domain.MenuItem, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", string(category))
	}
	return query[[]domain.MenuItem](ctx, c, "getMenuItems", category, []Tag{TagMenuItem},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/menu", params, nil)
		})
}

// AddMenuItem creates a menu item. Invalidates MenuItem.
func (c *Client) AddMenuItem(ctx context.Context, item domain.MenuItemPatch) (domain.MenuItem, error) {
	return mutate[domain.MenuItem](ctx, c, []Tag{TagMenuItem}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPost, "/menu", nil, item)
	})
}

// UpdateMenuItem applies a partial update. Invalidates MenuItem.
func (c *Client) UpdateMenuItem(ctx context.Context, id string, item domain.MenuItemPatch) (domain.MenuItem, error) {
	return mutate[domain.MenuItem](ctx, c, []Tag{TagMenuItem}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPut, "/menu/"+url.PathEscape(id), nil, item)
	})
}

// DeleteMenuItem removes a menu item. Invalidates MenuItem.
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	_, err := mutate[struct {
		Message string `json:"message"`
	}](ctx, c, []Tag{TagMenuItem}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodDelete, "/menu/"+url.PathEscape(id), nil, nil)
	})
	return err
}

// Customers returns one page of customers. Provides Customer.
func (c *Client) Customers(ctx context.Context, filter domain.CustomerFilter) (domain.CustomerPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(filter.Page))
	params.Set("limit", strconv.Itoa(filter.Limit))
	if filter.Status != "" {
		params.Set("status", filter.Status)
	}
	return query[domain.CustomerPage](ctx, c, "getCustomers", filter, []Tag{TagCustomer},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/customers", params, nil)
		})
}

// CustomerByID fetches one customer. Provides Customer.
func (c *Client) CustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	return query[domain.Customer](ctx, c, "getCustomerById", id, []Tag{TagCustomer},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/customers/"+url.PathEscape(id), nil, nil)
		})
}

// UpdateCustomerStatus toggles a customer between active and inactive.
// Invalidates Customer.
func (c *Client) UpdateCustomerStatus(ctx context.Context, id string, status domain.CustomerStatus) (domain.Customer, error) {
	if status != domain.CustomerActive && status != domain.CustomerInactive {
		return domain.Customer{}, domain.ErrInvalidPayload
	}
	body := map[string]domain.CustomerStatus{"status": status}
	return mutate[domain.Customer](ctx, c, []Tag{TagCustomer}, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, fasthttp.MethodPatch, "/customers/"+url.PathEscape(id)+"/status", nil, body)
	})
}

// Feedback lists customer reviews. Provides Feedback.
func (c *Client) Feedback(ctx context.Context) ([]domain.Feedback, error) {
	return query[[]domain.Feedback](ctx, c, "getFeedback", nil, []Tag{TagFeedback},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/feedback", nil, nil)
		})
}

// SalesReports aggregates sales for a date range. Provides Reports.
func (c *Client) SalesReports(ctx context.Context, r domain.ReportRange) (domain.SalesReport, error) {
	params := url.Values{}
	if r.StartDate != "" {
		params.Set("startDate", r.StartDate)
	}
	if r.EndDate != "" {
		params.Set("endDate", r.EndDate)
	}
	return query[domain.SalesReport](ctx, c, "getSalesReports", r, []Tag{TagReports},
		func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, fasthttp.MethodGet, "/reports/sales", params, nil)
		})
}
