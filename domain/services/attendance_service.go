package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/models"
)

// Custom errors for attendance services
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrDuplicateRecord = errors.New("session already has a record for this student")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 100")
)

// ScanResult is one student's proposed status after classroom recognition.
// The review step stays with the caller; nothing is stored until the session
// is saved.
type ScanResult struct {
	StudentID  uuid.UUID               `json:"student_id"`
	Name       string                  `json:"name"`
	Status     models.AttendanceStatus `json:"status"`
	Confidence int                     `json:"confidence"`
}

// RecordInput is one reviewed record submitted when saving a session.
type RecordInput struct {
	StudentID  uuid.UUID               `json:"student_id"`
	Status     models.AttendanceStatus `json:"status"`
	Confidence int                     `json:"confidence"`
	Note       string                  `json:"note,omitempty"`
}

// MonthlyStudentSummary is one roster row of the monthly report: the range
// rollup plus the per-day grid used for interactive editing.
type MonthlyStudentSummary struct {
	StudentID uuid.UUID                          `json:"student_id"`
	Name      string                             `json:"name"`
	Summary   attendance.RangeSummary            `json:"summary"`
	Grid      map[string]models.AttendanceStatus `json:"grid"`
}

// MonthlyReport is the aggregate over every day of one month.
type MonthlyReport struct {
	Month    string                  `json:"month"`
	Dates    []string                `json:"dates"`
	Students []MonthlyStudentSummary `json:"students"`
}

// AttendanceService owns session intake, status consolidation and manual
// correction. Reads are pure over whatever the session store returns.
// Concurrent overrides for the same date from independent callers require
// external serialization; the service itself takes no locks.
type AttendanceService interface {
	// ScanClassroom runs recognition over a classroom photo and proposes a
	// status per roster student. Students the recognizer does not report are
	// proposed absent at confidence 0.
	ScanClassroom(ctx context.Context, imageData []byte, mimeType string) ([]ScanResult, error)

	// SaveSession stores one reviewed observation event for a date.
	SaveSession(ctx context.Context, date string, classroomPhoto string, records []RecordInput) (*models.AttendanceSession, error)

	// ListSessions returns sessions, optionally filtered to one date.
	ListSessions(ctx context.Context, date string, page, limit int) ([]models.AttendanceSession, int64, error)

	GetSession(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error)

	// DailySummary consolidates every session of one date into cohort counts
	// under the supplied unmarked policy.
	DailySummary(ctx context.Context, date string, policy attendance.UnmarkedPolicy) (*attendance.CohortSummary, error)

	// MonthlyReport rolls every day of yearMonth (YYYY-MM) up per student.
	MonthlyReport(ctx context.Context, yearMonth string) (*MonthlyReport, error)

	// ApplyOverride corrects one student's status for one date at full
	// confidence, amending the first session of the date or creating a
	// photo-less one. Applying the same override twice leaves one record.
	ApplyOverride(ctx context.Context, studentID uuid.UUID, date string, status models.AttendanceStatus) (*models.AttendanceSession, error)

	// ToggleStatus resolves the student's current status for the date and
	// applies the next status in the editing cycle.
	ToggleStatus(ctx context.Context, studentID uuid.UUID, date string) (models.AttendanceStatus, error)
}
