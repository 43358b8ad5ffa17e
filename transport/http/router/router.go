package router

import (
	"github.com/go-chi/chi/v5"

	"hotel/internal/handlers/analytics"
	"hotel/internal/handlers/auth"
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/gallery"
	"hotel/internal/handlers/inventory"
	"hotel/internal/handlers/message"
	"hotel/internal/handlers/promotion"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/settings"
	"hotel/internal/handlers/user"
	"hotel/transport/http/middleware"
)

type DomainHandlers struct {
	Auth      auth.Handler
	Room      room.Handler
	Booking   booking.Handler
	User      user.Handler
	Promotion promotion.Handler
	Settings  settings.Handler
	Gallery   gallery.Handler
	Inventory inventory.Handler
	Message   message.Handler
	Analytics analytics.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AuthRole
}

// SetupRoutes mounts three surfaces under /v1: the public site, the signed-in
// guest area and the back office under /admin.
func (r *Router) SetupRoutes(router chi.Router) {
	h := r.DomainHandlers

	router.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(public chi.Router) {
			h.Auth.PublicRouter(public)
			h.Room.PublicRouter(public)
			h.Booking.PublicRouter(public)
			h.Promotion.PublicRouter(public)
			h.Settings.PublicRouter(public)
			h.Gallery.PublicRouter(public)
			h.Message.PublicRouter(public)
		})

		v1.Group(func(guest chi.Router) {
			guest.Use(r.Middleware.Auth)
			guest.Use(r.Middleware.RBAC)

			h.Auth.Router(guest)
			h.Booking.Router(guest)
		})

		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(r.Middleware.APIKey)
			admin.Use(r.Middleware.Session)
			admin.Use(r.Middleware.AdminGate)
			admin.Use(r.Middleware.RBAC)

			h.Room.AdminRouter(admin)
			h.Booking.AdminRouter(admin)
			h.User.AdminRouter(admin)
			h.Promotion.AdminRouter(admin)
			h.Settings.AdminRouter(admin)
			h.Gallery.AdminRouter(admin)
			h.Inventory.AdminRouter(admin)
			h.Message.AdminRouter(admin)
			h.Analytics.AdminRouter(admin)
		})
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     authRole,
	}
}
