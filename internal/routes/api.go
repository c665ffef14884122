package routes

import (
	"github.com/dukerupert/fakturo/internal/handler"
	"github.com/dukerupert/fakturo/internal/router"
)

// RegisterAPIRoutes registers the REST API under /api. Registration and
// login are the only anonymous routes.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Route("/api/auth", func(r *router.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
	}, deps.AuthRateLimit, deps.Timeout)

	api := r.Group(deps.RequireAuth)
	docs := api.Group(deps.DocumentTimeout)
	api = api.Group(deps.Timeout)

	api.Route("/api/business", func(r *router.Router) {
		r.Get("", deps.Business.Get)
		r.Put("", deps.Business.Update, deps.RequireOwner)
		r.Put("/invoice-settings", deps.Business.UpdateInvoiceSettings, deps.RequireOwner)
		r.Post("/logo", deps.Business.UploadLogo, deps.RequireOwner)
	})

	api.Route("/api/clients", func(r *router.Router) {
		r.Get("", deps.Clients.List)
		r.Post("", deps.Clients.Create)
		r.Get("/{id}", deps.Clients.Get)
		r.Put("/{id}", deps.Clients.Update)
		r.Delete("/{id}", deps.Clients.Delete)
	})

	api.Route("/api/items", func(r *router.Router) {
		r.Get("", deps.Items.List)
		r.Post("", deps.Items.Create)
		r.Get("/search", deps.Items.Search)
		r.Get("/{id}", deps.Items.Get)
		r.Put("/{id}", deps.Items.Update)
		r.Delete("/{id}", deps.Items.Delete)
		r.Post("/{id}/stock", deps.Items.AdjustStock)
		r.Post("/{id}/image", deps.Items.UploadImage)
	})

	api.Route("/api/invoices", func(r *router.Router) {
		r.Get("", deps.Invoices.List)
		r.Post("", deps.Invoices.Create)
		r.Post("/preview", deps.Invoices.Preview)
		r.Get("/analytics/summary", deps.Analytics.Summary)
		r.Get("/{id}", deps.Invoices.Get)
		r.Put("/{id}", deps.Invoices.Update)
		r.Delete("/{id}", deps.Invoices.Void)
		r.Put("/{id}/client", deps.Invoices.UpdateClient)
		r.Post("/{id}/paid", deps.Invoices.SetPaid)
		r.Post("/{id}/delivery-status", deps.Invoices.SetDeliveryStatus)
	})

	docs.Route("/api/invoices", func(r *router.Router) {
		r.Get("/export", deps.Analytics.Export)
		r.Get("/{id}/pdf", deps.Invoices.PDF)
		r.Post("/{id}/send", deps.Invoices.Send)
	})

	api.Route("/api/deliveries", func(r *router.Router) {
		r.Get("", deps.Deliveries.List)
		r.Post("", deps.Deliveries.Create)
		r.Get("/{id}", deps.Deliveries.Get)
		r.Delete("/{id}", deps.Deliveries.Delete)
		r.Put("/{id}/notes", deps.Deliveries.UpdateNotes)
		r.Delete("/{id}/invoices/{invoiceID}", deps.Deliveries.RemoveInvoice)
	})
}

// RegisterPublicRoutes registers the share links printed on documents.
func RegisterPublicRoutes(r *router.Router, deps PublicDeps) {
	r.Route("/public", func(r *router.Router) {
		r.Get("/invoices/{id}", deps.Public.Invoice)
		r.Get("/deliveries/{id}", deps.Public.Delivery)
	}, deps.Timeout)

	r.Route("/public", func(r *router.Router) {
		r.Get("/invoices/{id}/pdf", deps.Public.InvoicePDF)
	}, deps.DocumentTimeout)
}

// RegisterOpsRoutes registers health, metrics and the JSON 404 fallback.
// /metrics should be firewalled in production.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", deps.Health.Health)
	r.Get("/metrics", deps.Metrics.ServeHTTP)
	r.NotFound(handler.NotFoundResponse)
}
