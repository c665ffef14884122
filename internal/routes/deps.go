package routes

import (
	"net/http"

	"github.com/dukerupert/fakturo/internal/handler/api"
	"github.com/dukerupert/fakturo/internal/router"
)

// APIDeps contains the handlers and route-level middleware for the REST API
type APIDeps struct {
	Auth       *api.AuthHandler
	Business   *api.BusinessHandler
	Clients    *api.ClientHandler
	Items      *api.ItemHandler
	Invoices   *api.InvoiceHandler
	Analytics  *api.AnalyticsHandler
	Deliveries *api.DeliveryHandler

	// RequireAuth rejects anonymous requests
	RequireAuth router.Middleware

	// RequireOwner guards business settings
	RequireOwner router.Middleware

	// AuthRateLimit is the stricter limiter for login and registration
	AuthRateLimit router.Middleware

	// Timeout bounds JSON requests, DocumentTimeout PDF, email and
	// spreadsheet requests
	Timeout         router.Middleware
	DocumentTimeout router.Middleware
}

// PublicDeps contains dependencies for unauthenticated share links
type PublicDeps struct {
	Public          *api.PublicHandler
	Timeout         router.Middleware
	DocumentTimeout router.Middleware
}

// OpsDeps contains the health and metrics endpoints
type OpsDeps struct {
	Health  *api.HealthHandler
	Metrics http.Handler
}
