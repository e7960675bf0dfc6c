package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrilink/support-service/internal/api/http/handlers"
	"github.com/agrilink/support-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/stats", auth.RequireStaff(), cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/update_status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.AssignTicket)
	tickets.Post("/:id/forward", auth.RequireStaff(), cfg.Tickets.ForwardTicket)
	tickets.Post("/:id/add_comment", cfg.Tickets.AddComment)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	notifications.Get("", cfg.Notifications.ListNotifications)
	notifications.Get("/unread_count", cfg.Notifications.UnreadCount)
	notifications.Post("/mark_all_read", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/mark_read", cfg.Notifications.MarkRead)
}
