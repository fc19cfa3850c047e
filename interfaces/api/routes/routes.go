package routes

import (
	"github.com/gofiber/fiber/v2"

	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/middleware"
	"smart-attendance/interfaces/api/websocket"
	"smart-attendance/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, hub *websocket.Hub, cfg *config.Config) {
	// Setup health and root routes
	SetupHealthRoutes(app, h)

	// API version group with general rate limiting
	api := app.Group("/api/v1", middleware.RateLimiter(&cfg.RateLimit))

	// Setup all route groups
	SetupAuthRoutes(api, h, &cfg.RateLimit)
	SetupStudentRoutes(api, h)
	SetupAttendanceRoutes(api, h)
	SetupReportRoutes(api, h)

	// Setup WebSocket routes (needs app, not api group)
	SetupWebSocketRoutes(app, hub)
}
