package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/pagesmith/pagesmith/internal/adapter/ws"
	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/middleware"
)

// MountRoutes registers all routes on the given chi router. The tenant
// middleware must already be installed so every site handler below sees
// a resolved tenant context; /healthz and /api/ are exempt from it.
func MountRoutes(r chi.Router, h *Handlers, hub *ws.Hub, srv config.Server) {
	r.Get("/healthz", h.Healthz)

	// Content-store webhook (HMAC-verified, rate limited).
	webhookLimiter := middleware.NewRateLimiter(5, 10)
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Use(webhookLimiter.Handler)
		r.With(middleware.WebhookHMAC(srv.WebhookSecret, "X-Sanity-Signature")).
			Post("/content", h.RevalidateWebhook)
	})

	// Operator API.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(srv.AdminToken))
		r.Get("/clients", h.ListClients)
		r.Post("/clients", h.CreateClient)
		r.Get("/clients/{id}", h.GetClient)
		r.Put("/clients/{id}", h.UpdateClient)
		r.Delete("/clients/{id}", h.DeleteClient)
	})

	// Live preview socket.
	r.Get("/ws", hub.HandleWS)

	// Tenant site.
	r.Get("/", h.Home)
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/services/{slug}", h.ServicePage)
	r.Get("/locations/{slug}", h.LocationPage)
	r.Get("/{serviceSlug}/in/{locationSlug}", h.CombinationPage)
}
