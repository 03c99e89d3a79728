package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/frontdesk-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Calls     *handlers.CallsHandler
	Requests  *handlers.RequestsHandler
	Knowledge *handlers.KnowledgeHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/calls/simulate", cfg.Calls.SimulateCall)

	requests := app.Group("/requests")
	requests.Post("", cfg.Requests.CreateRequest)
	requests.Get("", cfg.Requests.ListRequests)
	requests.Get("/pending", cfg.Requests.ListPending)
	requests.Get("/resolved", cfg.Requests.ListResolved)
	requests.Get("/:id", cfg.Requests.GetRequest)
	requests.Post("/:id/resolution", cfg.Requests.ResolveRequest)

	app.Get("/knowledge", cfg.Knowledge.ListKnowledge)
}
