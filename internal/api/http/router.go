package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-service/internal/api/http/handlers"
	"github.com/spec-kit/club-service/internal/auth"
	"github.com/spec-kit/club-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	Clubs          *handlers.ClubsHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/otp/request", cfg.Auth.RequestOTP)
	authGroup.Post("/otp/verify", cfg.Auth.VerifyOTP)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	accounts := app.Group("/accounts", cfg.AuthMiddleware.Handle)
	accounts.Get("/me", cfg.Accounts.Me)
	accounts.Patch("/me", cfg.Accounts.UpdateMe)
	accounts.Patch("/:id/status", auth.RequireRole(domain.RoleSiteAdmin), cfg.Accounts.SetStatus)
	accounts.Patch("/:id/role", auth.RequireRole(domain.RoleSiteAdmin), cfg.Accounts.SetRole)

	clubs := app.Group("/clubs")
	clubs.Get("/", cfg.Clubs.List)
	clubs.Get("/:slug", cfg.Clubs.Get)
	clubs.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSiteAdmin), cfg.Clubs.Create)
	clubs.Patch("/:slug", cfg.AuthMiddleware.Handle, cfg.Clubs.Update)
	clubs.Patch("/:slug/admins", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSiteAdmin), cfg.Clubs.SetAdmin)
	clubs.Post("/:slug/join", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Clubs.Join)
	clubs.Delete("/:slug/members/me", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Clubs.Leave)
	clubs.Post("/:slug/like", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Clubs.Like)
	clubs.Post("/:slug/events", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Events.Create)

	events := app.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Get("/:id", cfg.Events.Get)
	events.Patch("/:id", cfg.AuthMiddleware.Handle, cfg.Events.Update)
	events.Delete("/:id", cfg.AuthMiddleware.Handle, cfg.Events.Delete)
	events.Post("/:id/like", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Events.Like)
	events.Get("/:id/comments", cfg.Events.ListComments)
	events.Post("/:id/comments", cfg.AuthMiddleware.Handle, auth.RequireVerifiedEmail(), cfg.Events.AddComment)
	events.Delete("/:id/comments/:commentID", cfg.AuthMiddleware.Handle, cfg.Events.DeleteComment)
}
