package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-mentorship/internal/config"
	"github.com/noah-isme/gema-mentorship/internal/handler"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/observability"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProjectHandler     *handler.ProjectHandler
	ApplicationHandler *handler.ApplicationHandler
	SubmissionHandler  *handler.SubmissionHandler
	StudentHandler     *handler.StudentHandler
	TestHandler        *handler.TestHandler
	OverviewHandler    *handler.OverviewHandler
	SeedHandler        *handler.SeedHandler
	Store              store.Reader
	JWTMiddleware      fiber.Handler
	RateLimiter        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Store))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	secured := api.Group("", jwtMiddleware, middleware.RequireActor(), rateLimiter)

	if deps.ProjectHandler != nil {
		deps.ProjectHandler.Register(secured.Group("/projects"))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.Register(secured.Group("/applications"))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(secured.Group("/submissions"))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(secured.Group("/students"))
	}
	if deps.TestHandler != nil {
		deps.TestHandler.Register(secured.Group("/tests"))
	}
	if deps.OverviewHandler != nil {
		deps.OverviewHandler.Register(secured)
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(secured.Group("/seed"))
	}
}
