package routes

import (
	"github.com/gofiber/fiber/v2"

	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/middleware"
)

func SetupReportRoutes(api fiber.Router, h *handlers.Handlers) {
	reports := api.Group("/reports")

	// Downloads accept the token as a query parameter since browsers can't
	// attach an Authorization header to a plain link.
	reports.Get("/monthly.csv", middleware.ProtectedWithQueryToken(), h.Report.MonthlyCSV)
	reports.Get("/log.csv", middleware.ProtectedWithQueryToken(), h.Report.RawLogCSV)
}
