package routes

import (
	"github.com/gofiber/fiber/v2"

	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/middleware"
	"smart-attendance/pkg/config"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, rateCfg *config.RateLimitConfig) {
	auth := api.Group("/auth")

	// Credential endpoints carry the stricter auth rate limit
	auth.Post("/register", middleware.AuthRateLimiter(rateCfg), h.Auth.Register)
	auth.Post("/login", middleware.AuthRateLimiter(rateCfg), h.Auth.Login)

	// Protected routes
	auth.Get("/me", middleware.Protected(), h.Auth.GetCurrentUser)
	auth.Post("/logout", h.Auth.Logout)
}
