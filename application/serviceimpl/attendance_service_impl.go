package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/models"
	"smart-attendance/domain/repositories"
	"smart-attendance/domain/services"
	"smart-attendance/infrastructure/recognition"
	"smart-attendance/infrastructure/redis"
	"smart-attendance/pkg/logger"
)

const summaryCacheTTL = 5 * time.Minute

// Recognizer proposes per-student presence from a classroom photo.
// *recognition.GeminiClient is the production implementation.
type Recognizer interface {
	AnalyzeClassroom(ctx context.Context, classroomPhoto []byte, mimeType string, students []models.Student) ([]recognition.Proposal, error)
}

type AttendanceServiceImpl struct {
	sessionRepo repositories.SessionRepository
	studentRepo repositories.StudentRepository
	recognizer  Recognizer
	cache       *redis.RedisClient
}

// NewAttendanceService wires the consolidation engine. recognizer and cache
// may be nil: without a recognizer, ScanClassroom is unavailable; without
// cache, every summary is computed fresh.
func NewAttendanceService(
	sessionRepo repositories.SessionRepository,
	studentRepo repositories.StudentRepository,
	recognizer Recognizer,
	cache *redis.RedisClient,
) services.AttendanceService {
	return &AttendanceServiceImpl{
		sessionRepo: sessionRepo,
		studentRepo: studentRepo,
		recognizer:  recognizer,
		cache:       cache,
	}
}

// ScanClassroom proposes a status per roster student from a classroom photo.
// Students the recognizer reports absent, or does not report at all, are
// proposed absent at confidence 0. Nothing is persisted here.
func (s *AttendanceServiceImpl) ScanClassroom(ctx context.Context, imageData []byte, mimeType string) ([]services.ScanResult, error) {
	if s.recognizer == nil {
		return nil, fmt.Errorf("recognition is not configured")
	}

	students, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(students) == 0 {
		return []services.ScanResult{}, nil
	}

	proposals, err := s.recognizer.AnalyzeClassroom(ctx, imageData, mimeType, students)
	if err != nil {
		return nil, fmt.Errorf("classroom analysis failed: %w", err)
	}

	results := proposalsToResults(students, proposals)

	logger.Attendance("scan_complete", "Classroom scan analyzed", map[string]interface{}{
		"roster_size": len(students),
		"proposals":   len(proposals),
	})
	return results, nil
}

// proposalsToResults maps recognizer proposals onto the roster. Students the
// recognizer reports absent, or does not report at all, come back absent at
// confidence 0; out-of-range confidences are clamped to 0-100.
func proposalsToResults(students []models.Student, proposals []recognition.Proposal) []services.ScanResult {
	byStudent := make(map[string]recognition.Proposal, len(proposals))
	for _, p := range proposals {
		byStudent[p.StudentID] = p
	}

	results := make([]services.ScanResult, len(students))
	for i, student := range students {
		status := models.StatusAbsent
		confidence := 0
		if p, ok := byStudent[student.ID.String()]; ok && p.Present {
			status = models.StatusPresent
			confidence = clampConfidence(int(p.Confidence))
		}
		results[i] = services.ScanResult{
			StudentID:  student.ID,
			Name:       student.Name,
			Status:     status,
			Confidence: confidence,
		}
	}
	return results
}

func (s *AttendanceServiceImpl) SaveSession(ctx context.Context, date string, classroomPhoto string, records []services.RecordInput) (*models.AttendanceSession, error) {
	if _, err := attendance.ParseDay(date); err != nil {
		return nil, err
	}

	session := &models.AttendanceSession{
		Date:           date,
		ClassroomPhoto: classroomPhoto,
		Records:        make([]models.AttendanceRecord, 0, len(records)),
	}
	for _, input := range records {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", services.ErrInvalidStatus, input.Status)
		}
		if input.Confidence < 0 || input.Confidence > 100 {
			return nil, services.ErrInvalidConfidence
		}
		session.Records = append(session.Records, models.AttendanceRecord{
			StudentID:  input.StudentID,
			Status:     input.Status,
			Confidence: input.Confidence,
			Note:       input.Note,
		})
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, date)

	logger.Attendance("session_saved", "Attendance session saved", map[string]interface{}{
		"session_id": session.ID.String(),
		"date":       date,
		"records":    len(session.Records),
	})
	return session, nil
}

func (s *AttendanceServiceImpl) ListSessions(ctx context.Context, date string, page, limit int) ([]models.AttendanceSession, int64, error) {
	offset := 0
	if page > 1 && limit > 0 {
		offset = (page - 1) * limit
	}

	if date == "" {
		return s.sessionRepo.ListAll(ctx, offset, limit)
	}

	if _, err := attendance.ParseDay(date); err != nil {
		return nil, 0, err
	}
	sessions, err := s.sessionRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, 0, err
	}

	// ListByDate is unpaged (the override path needs the full day); the page
	// window is applied here so filtered and unfiltered listings behave alike.
	total := int64(len(sessions))
	if limit > 0 {
		if offset >= len(sessions) {
			return []models.AttendanceSession{}, total, nil
		}
		end := offset + limit
		if end > len(sessions) {
			end = len(sessions)
		}
		sessions = sessions[offset:end]
	}
	return sessions, total, nil
}

func (s *AttendanceServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *AttendanceServiceImpl) DailySummary(ctx context.Context, date string, policy attendance.UnmarkedPolicy) (*attendance.CohortSummary, error) {
	if _, err := attendance.ParseDay(date); err != nil {
		return nil, err
	}
	if policy == "" {
		policy = attendance.CollapseUnmarked
	}

	if cached := s.cachedSummary(ctx, date, policy); cached != nil {
		return cached, nil
	}

	students, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	sessions, err := s.sessionRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	summary := attendance.SummarizeCohort(date, students, sessions, policy)
	s.storeSummary(ctx, date, policy, &summary)
	return &summary, nil
}

func (s *AttendanceServiceImpl) MonthlyReport(ctx context.Context, yearMonth string) (*services.MonthlyReport, error) {
	dates, err := attendance.DaysInMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	students, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	sessions, err := s.sessionRepo.ListByDates(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	report := &services.MonthlyReport{
		Month:    yearMonth,
		Dates:    dates,
		Students: make([]services.MonthlyStudentSummary, len(students)),
	}
	for i, student := range students {
		report.Students[i] = services.MonthlyStudentSummary{
			StudentID: student.ID,
			Name:      student.Name,
			Summary:   attendance.SummarizeRange(student.ID, dates, sessions),
			Grid:      attendance.StatusByDate(student.ID, dates, sessions),
		}
	}
	return report, nil
}

// ApplyOverride amends the first session of the date in creation order, or
// creates a photo-less session when none exists. Callers issuing concurrent
// overrides for the same date must serialize them externally.
func (s *AttendanceServiceImpl) ApplyOverride(ctx context.Context, studentID uuid.UUID, date string, status models.AttendanceStatus) (*models.AttendanceSession, error) {
	if _, err := attendance.ParseDay(date); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", services.ErrInvalidStatus, status)
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrStudentNotFound
		}
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	if len(sessions) == 0 {
		session := &models.AttendanceSession{
			Date: date,
			// Manual sessions carry no classroom photo.
			Records: []models.AttendanceRecord{{
				StudentID:  studentID,
				Status:     status,
				Confidence: 100,
			}},
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, err
		}
		s.invalidateSummary(ctx, date)
		logger.Attendance("override_created", "Manual session created for override", map[string]interface{}{
			"session_id": session.ID.String(),
			"student_id": studentID.String(),
			"date":       date,
			"status":     string(status),
		})
		return session, nil
	}

	// First session of the day under creation order: a stable tie-break, so
	// repeated overrides always land in the same session.
	target := sessions[0]

	applied := false
	for _, record := range target.Records {
		if record.StudentID != studentID {
			continue
		}
		record.Status = status
		record.Confidence = 100
		if err := s.sessionRepo.UpdateRecord(ctx, record.ID, &record); err != nil {
			return nil, err
		}
		applied = true
		break
	}
	if !applied {
		record := &models.AttendanceRecord{
			StudentID:  studentID,
			Status:     status,
			Confidence: 100,
		}
		if err := s.sessionRepo.AddRecord(ctx, target.ID, record); err != nil {
			return nil, err
		}
	}

	s.invalidateSummary(ctx, date)
	logger.Attendance("override_applied", "Manual override applied", map[string]interface{}{
		"session_id": target.ID.String(),
		"student_id": studentID.String(),
		"date":       date,
		"status":     string(status),
	})
	return s.sessionRepo.GetByID(ctx, target.ID)
}

func (s *AttendanceServiceImpl) ToggleStatus(ctx context.Context, studentID uuid.UUID, date string) (models.AttendanceStatus, error) {
	if _, err := attendance.ParseDay(date); err != nil {
		return "", err
	}

	sessions, err := s.sessionRepo.ListByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to load sessions: %w", err)
	}

	next := attendance.NextStatus(attendance.ResolveFor(studentID, date, sessions))
	if _, err := s.ApplyOverride(ctx, studentID, date, next); err != nil {
		return "", err
	}
	return next, nil
}

func summaryCacheKey(date string, policy attendance.UnmarkedPolicy) string {
	return fmt.Sprintf("summary:%s:%s", date, policy)
}

func (s *AttendanceServiceImpl) cachedSummary(ctx context.Context, date string, policy attendance.UnmarkedPolicy) *attendance.CohortSummary {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, summaryCacheKey(date, policy))
	if err != nil || !ok {
		return nil
	}
	var summary attendance.CohortSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *AttendanceServiceImpl) storeSummary(ctx context.Context, date string, policy attendance.UnmarkedPolicy, summary *attendance.CohortSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey(date, policy), string(raw), summaryCacheTTL); err != nil {
		logger.AttendanceWarn("summary_cache_set_failed", "Failed to cache daily summary", map[string]interface{}{
			"date":  date,
			"error": err.Error(),
		})
	}
}

// invalidateSummary drops every cached view of a date after any write to
// that date's sessions, so caches can never serve stale derived state.
func (s *AttendanceServiceImpl) invalidateSummary(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	err := s.cache.Delete(ctx,
		summaryCacheKey(date, attendance.CollapseUnmarked),
		summaryCacheKey(date, attendance.KeepUnmarked),
	)
	if err != nil {
		logger.AttendanceWarn("summary_cache_invalidate_failed", "Failed to invalidate summary cache", map[string]interface{}{
			"date":  date,
			"error": err.Error(),
		})
	}
}

func clampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}
