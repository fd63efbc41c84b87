package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Datasets       *handlers.DatasetsHandler
	Audit          *handlers.AuditHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *auth.RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/transition", cfg.Tickets.TransitionTicket)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/milestones", cfg.Tickets.AddMilestone)
	tickets.Post("/:id/milestones/:milestoneID/complete", cfg.Tickets.CompleteMilestone)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)

	datasets := app.Group("/datasets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	datasets.Post("/", cfg.Datasets.CreateDataset)
	datasets.Get("/", cfg.Datasets.ListDatasets)
	datasets.Get("/:id", cfg.Datasets.GetDataset)
	datasets.Patch("/:id", cfg.Datasets.UpdateDataset)
	datasets.Delete("/:id", cfg.Datasets.DeleteDataset)
	datasets.Post("/:id/transition", cfg.Datasets.TransitionDataset)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.ListUsers)
	users.Post("/:id/role", auth.RequireRole(domain.RoleAdmin), cfg.Users.ChangeRole)
	users.Post("/:id/active", auth.RequireRole(domain.RoleAdmin), cfg.Users.SetActive)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.DeleteUser)

	audit := app.Group("/audit", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	audit.Get("/:kind/:id", cfg.Audit.ListBySubject)
}
