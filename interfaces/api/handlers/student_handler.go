package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smart-attendance/domain/services"
	"smart-attendance/interfaces/api/websocket"
	"smart-attendance/pkg/utils"
)

type StudentHandler struct {
	studentService services.StudentService
	hub            *websocket.Hub
}

func NewStudentHandler(studentService services.StudentService, hub *websocket.Hub) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		hub:            hub,
	}
}

// RegisterStudentRequest is the request body for roster registration
type RegisterStudentRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Photo string `json:"photo"` // base64 profile photo used by recognition
}

// UpdateStudentRequest is the request body for roster updates
type UpdateStudentRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=200"`
	Photo string `json:"photo"`
}

// Register adds a student to the roster
func (h *StudentHandler) Register(c *fiber.Ctx) error {
	var req RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	student, err := h.studentService.Register(c.Context(), req.Name, req.Photo)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	h.hub.Broadcast(websocket.EventStudentChanged, fiber.Map{"student_id": student.ID, "action": "registered"})
	return utils.CreatedResponse(c, "Student registered", student)
}

// List returns the full roster
func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.studentService.ListStudents(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list students", err)
	}

	return utils.SuccessResponse(c, "Students retrieved", students)
}

// Get returns one student by ID
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid student ID", err)
	}

	student, err := h.studentService.GetStudent(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return utils.NotFoundResponse(c, "Student not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get student", err)
	}

	return utils.SuccessResponse(c, "Student retrieved", student)
}

// Update changes a student's name or photo
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid student ID", err)
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	student, err := h.studentService.UpdateStudent(c.Context(), id, req.Name, req.Photo)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return utils.NotFoundResponse(c, "Student not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}

	h.hub.Broadcast(websocket.EventStudentChanged, fiber.Map{"student_id": student.ID, "action": "updated"})
	return utils.SuccessResponse(c, "Student updated", student)
}

// Delete removes a student from the roster. Stored attendance records are
// kept and exported under a placeholder name.
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid student ID", err)
	}

	if err := h.studentService.DeleteStudent(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return utils.NotFoundResponse(c, "Student not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete student", err)
	}

	h.hub.Broadcast(websocket.EventStudentChanged, fiber.Map{"student_id": id, "action": "deleted"})
	return utils.SuccessResponse(c, "Student deleted", nil)
}
