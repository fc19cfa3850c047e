package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-attendance/domain/models"
	"smart-attendance/domain/repositories"
	"smart-attendance/domain/services"
)

type SessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) repositories.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *models.AttendanceSession) error {
	seen := make(map[uuid.UUID]bool, len(session.Records))
	for _, record := range session.Records {
		if seen[record.StudentID] {
			return services.ErrDuplicateRecord
		}
		seen[record.StudentID] = true
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Records").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) ListByDate(ctx context.Context, date string) ([]models.AttendanceSession, error) {
	var sessions []models.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Records").
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepositoryImpl) ListByDates(ctx context.Context, dates []string) ([]models.AttendanceSession, error) {
	if len(dates) == 0 {
		return []models.AttendanceSession{}, nil
	}
	var sessions []models.AttendanceSession
	err := r.db.WithContext(ctx).
		Preload("Records").
		Where("date IN ?", dates).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepositoryImpl) ListAll(ctx context.Context, offset, limit int) ([]models.AttendanceSession, int64, error) {
	var sessions []models.AttendanceSession
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.AttendanceSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Preload("Records").
		Order("date DESC, created_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	err := query.Find(&sessions).Error

	return sessions, total, err
}

func (r *SessionRepositoryImpl) AddRecord(ctx context.Context, sessionID uuid.UUID, record *models.AttendanceRecord) error {
	var existing int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("session_id = ? AND student_id = ?", sessionID, record.StudentID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return services.ErrDuplicateRecord
	}

	record.SessionID = sessionID
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *SessionRepositoryImpl) UpdateRecord(ctx context.Context, recordID uuid.UUID, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"status":     record.Status,
			"confidence": record.Confidence,
			"note":       record.Note,
			"updated_at": time.Now(),
		}).Error
}

func (r *SessionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceSession{}).Count(&count).Error
	return count, err
}
