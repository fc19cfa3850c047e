package repositories

import (
	"context"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

type SessionRepository interface {
	// Create inserts a session with its records. It fails with
	// services.ErrDuplicateRecord when the session carries two records for
	// the same student.
	Create(ctx context.Context, session *models.AttendanceSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error)
	// ListByDate returns every session for one calendar date in creation
	// order, records preloaded. The override path depends on this ordering
	// being stable.
	ListByDate(ctx context.Context, date string) ([]models.AttendanceSession, error)
	// ListByDates returns every session whose date falls in the supplied set.
	ListByDates(ctx context.Context, dates []string) ([]models.AttendanceSession, error)
	// ListAll returns sessions newest-date-first for history views. A limit
	// of zero or less returns everything.
	ListAll(ctx context.Context, offset, limit int) ([]models.AttendanceSession, int64, error)
	AddRecord(ctx context.Context, sessionID uuid.UUID, record *models.AttendanceRecord) error
	UpdateRecord(ctx context.Context, recordID uuid.UUID, record *models.AttendanceRecord) error
	Count(ctx context.Context) (int64, error)
}
