package routes

import (
	"github.com/gofiber/fiber/v2"

	"smart-attendance/interfaces/api/handlers"
	"smart-attendance/interfaces/api/middleware"
)

func SetupStudentRoutes(api fiber.Router, h *handlers.Handlers) {
	students := api.Group("/students", middleware.Protected())

	students.Post("/", h.Student.Register)
	students.Get("/", h.Student.List)
	students.Get("/:id", h.Student.Get)
	students.Put("/:id", h.Student.Update)
	students.Delete("/:id", h.Student.Delete)
}
