package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pathlight-labs/pathlight-api/internal/config"
	"github.com/pathlight-labs/pathlight-api/internal/handler"
	"github.com/pathlight-labs/pathlight-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DashboardHandler    *handler.DashboardHandler
	LessonHandler       *handler.LessonHandler
	StreakHandler       *handler.StreakHandler
	ProgressHandler     *handler.ProgressHandler
	GamificationHandler *handler.GamificationHandler
	ProjectHandler      *handler.ProjectHandler
	DiscussionHandler   *handler.DiscussionHandler
	AssistantHandler    *handler.AssistantHandler
	PreferenceHandler   *handler.PreferenceHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DashboardHandler != nil {
		dashboard := app.Group("/api/v1/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.LessonHandler != nil {
		lessons := app.Group("/api/v1/lessons", jwtMiddleware)
		deps.LessonHandler.Register(lessons)
	}

	if deps.StreakHandler != nil {
		streaks := app.Group("/api/v1/streaks", jwtMiddleware)
		deps.StreakHandler.Register(streaks)
	}

	if deps.ProgressHandler != nil {
		progress := app.Group("/api/v1/progress", jwtMiddleware)
		deps.ProgressHandler.Register(progress)
	}

	if deps.GamificationHandler != nil {
		gamification := app.Group("/api/v1/gamification", jwtMiddleware)
		deps.GamificationHandler.Register(gamification)
	}

	if deps.ProjectHandler != nil {
		projects := app.Group("/api/v1/projects", jwtMiddleware)
		deps.ProjectHandler.Register(projects)
	}

	if deps.DiscussionHandler != nil {
		discussions := app.Group("/api/v1/discussions", jwtMiddleware)
		deps.DiscussionHandler.Register(discussions)
	}

	if deps.AssistantHandler != nil {
		assistant := app.Group("/api/v1/assistant", jwtMiddleware)
		deps.AssistantHandler.Register(assistant)
	}

	if deps.PreferenceHandler != nil {
		preferences := app.Group("/api/v1/preferences", jwtMiddleware)
		deps.PreferenceHandler.Register(preferences)
	}

	if deps.SeedHandler != nil {
		seed := app.Group("/api/v1/seed")
		deps.SeedHandler.Register(seed)
	}
}
