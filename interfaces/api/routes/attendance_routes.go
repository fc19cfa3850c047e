package routes

import (
	"github.com/gofiber/fiber/v2"

	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/middleware"
)

func SetupAttendanceRoutes(api fiber.Router, h *handlers.Handlers) {
	att := api.Group("/attendance", middleware.Protected())

	att.Post("/scan", h.Attendance.Scan)
	att.Post("/sessions", h.Attendance.SaveSession)
	att.Get("/sessions", h.Attendance.ListSessions)
	att.Get("/sessions/:id", h.Attendance.GetSession)
	att.Get("/summary", h.Attendance.DailySummary)
	att.Get("/monthly", h.Attendance.MonthlyReport)
	att.Post("/override", h.Attendance.Override)
	att.Post("/toggle", h.Attendance.Toggle)
}
