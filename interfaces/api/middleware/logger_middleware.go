package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"smart-attendance/pkg/logger"
)

// LoggerMiddleware logs every request with its latency and status code.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		data := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
			"ip":     c.IP(),
		}

		entry := logger.LogEntry{
			Level:    logger.LevelInfo,
			Category: logger.CategoryAPI,
			Action:   "request",
			Message:  c.Method() + " " + c.Path(),
			Data:     data,
			Duration: time.Since(start).String(),
		}
		if status >= fiber.StatusInternalServerError {
			entry.Level = logger.LevelError
		} else if status >= fiber.StatusBadRequest {
			entry.Level = logger.LevelWarn
		}
		logger.Default().Log(entry)

		return err
	}
}

// CorsMiddleware allows cross-origin requests from the frontend.
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	})
}
