package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/models"
	"smart-attendance/domain/services"
	"smart-attendance/interfaces/api/websocket"
	"smart-attendance/pkg/logger"
	"smart-attendance/pkg/utils"
)

type AttendanceHandler struct {
	attendanceService services.AttendanceService
	hub               *websocket.Hub
}

func NewAttendanceHandler(attendanceService services.AttendanceService, hub *websocket.Hub) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		hub:               hub,
	}
}

// ScanRequest is the request body for classroom recognition
type ScanRequest struct {
	Image    string `json:"image" validate:"required"` // base64, optionally a data URL
	MimeType string `json:"mime_type"`
}

// SaveSessionRequest is the request body for storing a reviewed session
type SaveSessionRequest struct {
	Date           string                 `json:"date" validate:"required"`
	ClassroomPhoto string                 `json:"classroom_photo"`
	Records        []SessionRecordRequest `json:"records" validate:"dive"`
}

// SessionRecordRequest is one reviewed record inside a session save
type SessionRecordRequest struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	Status     string `json:"status" validate:"required"`
	Confidence int    `json:"confidence" validate:"min=0,max=100"`
	Note       string `json:"note"`
}

// OverrideRequest is the request body for a manual status correction
type OverrideRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// ToggleRequest is the request body for cycling a student's status
type ToggleRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
}

// Scan runs recognition over a classroom photo and proposes per-student
// statuses. Nothing is stored until the reviewed session is saved.
func (h *AttendanceHandler) Scan(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	image, mimeType, err := decodeImage(req.Image, req.MimeType)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid image encoding", err)
	}

	results, err := h.attendanceService.ScanClassroom(c.Context(), image, mimeType)
	if err != nil {
		logger.AttendanceError("scan_failed", "Classroom scan failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Recognition failed", err)
	}

	return utils.SuccessResponse(c, "Classroom scanned", results)
}

// SaveSession stores one reviewed observation event for a date
func (h *AttendanceHandler) SaveSession(c *fiber.Ctx) error {
	var req SaveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	records := make([]services.RecordInput, 0, len(req.Records))
	for _, r := range req.Records {
		studentID, err := uuid.Parse(r.StudentID)
		if err != nil {
			return utils.BadRequestResponse(c, "Invalid student ID: "+r.StudentID, err)
		}
		records = append(records, services.RecordInput{
			StudentID:  studentID,
			Status:     models.AttendanceStatus(r.Status),
			Confidence: r.Confidence,
			Note:       r.Note,
		})
	}

	session, err := h.attendanceService.SaveSession(c.Context(), req.Date, req.ClassroomPhoto, records)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrInvalidDate):
			return utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", err)
		case errors.Is(err, services.ErrInvalidStatus):
			return utils.BadRequestResponse(c, "Invalid attendance status", err)
		case errors.Is(err, services.ErrInvalidConfidence):
			return utils.BadRequestResponse(c, "Confidence must be between 0 and 100", err)
		case errors.Is(err, services.ErrDuplicateRecord):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Duplicate student in session", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save session", err)
		}
	}

	h.hub.Broadcast(websocket.EventSessionSaved, fiber.Map{
		"session_id": session.ID,
		"date":       session.Date,
		"records":    len(session.Records),
	})
	return utils.CreatedResponse(c, "Session saved", session)
}

// ListSessions returns sessions, optionally filtered to one date
func (h *AttendanceHandler) ListSessions(c *fiber.Ctx) error {
	date := c.Query("date")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	sessions, total, err := h.attendanceService.ListSessions(c.Context(), date, page, limit)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidDate) {
			return utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list sessions", err)
	}

	return utils.SuccessResponse(c, "Sessions retrieved", fiber.Map{
		"sessions": sessions,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetSession returns one session with its records
func (h *AttendanceHandler) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid session ID", err)
	}

	session, err := h.attendanceService.GetSession(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return utils.NotFoundResponse(c, "Session not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get session", err)
	}

	return utils.SuccessResponse(c, "Session retrieved", session)
}

// DailySummary consolidates every session of one date into cohort counts.
// The unmarked query parameter selects how unmarked students are counted:
// "collapse" (default) folds them into absent, "keep" reports them separately.
func (h *AttendanceHandler) DailySummary(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return utils.BadRequestResponse(c, "date query parameter is required", nil)
	}

	policy := attendance.UnmarkedPolicy(c.Query("unmarked", string(attendance.CollapseUnmarked)))
	if policy != attendance.CollapseUnmarked && policy != attendance.KeepUnmarked {
		return utils.BadRequestResponse(c, "unmarked must be 'collapse' or 'keep'", nil)
	}

	summary, err := h.attendanceService.DailySummary(c.Context(), date, policy)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidDate) {
			return utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
	}

	return utils.SuccessResponse(c, "Daily summary", summary)
}

// MonthlyReport rolls every day of one month up per student
func (h *AttendanceHandler) MonthlyReport(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return utils.BadRequestResponse(c, "month query parameter is required (YYYY-MM)", nil)
	}

	report, err := h.attendanceService.MonthlyReport(c.Context(), month)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidDate) {
			return utils.BadRequestResponse(c, "Invalid month, expected YYYY-MM", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build report", err)
	}

	return utils.SuccessResponse(c, "Monthly report", report)
}

// Override corrects one student's status for one date at full confidence
func (h *AttendanceHandler) Override(c *fiber.Ctx) error {
	var req OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid student ID", err)
	}

	session, err := h.attendanceService.ApplyOverride(c.Context(), studentID, req.Date, models.AttendanceStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return utils.NotFoundResponse(c, "Student not found")
		case errors.Is(err, attendance.ErrInvalidDate):
			return utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", err)
		case errors.Is(err, services.ErrInvalidStatus):
			return utils.BadRequestResponse(c, "Invalid attendance status", err)
		default:
			logger.AttendanceError("override_failed", "Manual override failed", err, map[string]interface{}{"student_id": req.StudentID, "date": req.Date})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to apply override", err)
		}
	}

	h.hub.Broadcast(websocket.EventOverrideApplied, fiber.Map{
		"student_id": studentID,
		"date":       req.Date,
		"status":     req.Status,
	})
	return utils.SuccessResponse(c, "Override applied", session)
}

// Toggle resolves the student's current status for the date and applies the
// next status in the editing cycle
func (h *AttendanceHandler) Toggle(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid student ID", err)
	}

	status, err := h.attendanceService.ToggleStatus(c.Context(), studentID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			return utils.NotFoundResponse(c, "Student not found")
		case errors.Is(err, attendance.ErrInvalidDate):
			return utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle status", err)
		}
	}

	h.hub.Broadcast(websocket.EventOverrideApplied, fiber.Map{
		"student_id": studentID,
		"date":       req.Date,
		"status":     status,
	})
	return utils.SuccessResponse(c, "Status toggled", fiber.Map{
		"student_id": studentID,
		"date":       req.Date,
		"status":     status,
	})
}

// decodeImage accepts raw base64 or a data URL and returns the image bytes
// with the effective MIME type.
func decodeImage(image, mimeType string) ([]byte, string, error) {
	if strings.HasPrefix(image, "data:") {
		parts := strings.SplitN(image, ",", 2)
		if len(parts) != 2 {
			return nil, "", errors.New("malformed data URL")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		if idx := strings.Index(meta, ";"); idx >= 0 {
			meta = meta[:idx]
		}
		if meta != "" {
			mimeType = meta
		}
		image = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, "", err
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
