package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/dishboard/console/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Dashboard *apiHandler.DashboardHandler
	Order     *apiHandler.OrderHandler
	Menu      *apiHandler.MenuHandler
	Customer  *apiHandler.CustomerHandler
	Health    *apiHandler.HealthHandler
}

// New wires the console's routes. Everything below /console is gated by the
// route guard; login, logout and the session probe are reachable anonymously.
func New(handlers Handlers, guard func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth flows
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)
	r.GET("/api/v1/auth/session", handlers.Auth.Session)

	// Protected console routes
	r.GET("/api/v1/console/dashboard/stats", guard(handlers.Dashboard.Stats))
	r.GET("/api/v1/console/feedback", guard(handlers.Dashboard.Feedback))
	r.GET("/api/v1/console/reports/sales", guard(handlers.Dashboard.SalesReports))

	r.GET("/api/v1/console/orders", guard(handlers.Order.List))
	r.GET("/api/v1/console/orders/{id}", guard(handlers.Order.Get))
	r.PATCH("/api/v1/console/orders/{id}/status", guard(handlers.Order.UpdateStatus))

	r.GET("/api/v1/console/menu", guard(handlers.Menu.List))
	r.POST("/api/v1/console/menu", guard(handlers.Menu.Create))
	r.PUT("/api/v1/console/menu/{id}", guard(handlers.Menu.Update))
	r.DELETE("/api/v1/console/menu/{id}", guard(handlers.Menu.Delete))

	r.GET("/api/v1/console/customers", guard(handlers.Customer.List))
	r.GET("/api/v1/console/customers/{id}", guard(handlers.Customer.Get))
	r.PATCH("/api/v1/console/customers/{id}/status", guard(handlers.Customer.UpdateStatus))

	return r
}
