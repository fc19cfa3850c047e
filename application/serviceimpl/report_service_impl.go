package serviceimpl

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/repositories"
	"smart-attendance/domain/services"
)

// removedStudentLabel replaces the name of students that were deleted from
// the roster after their records were taken. Exports never fail over them.
const removedStudentLabel = "Removed Student"

type ReportServiceImpl struct {
	sessionRepo repositories.SessionRepository
	studentRepo repositories.StudentRepository
}

func NewReportService(
	sessionRepo repositories.SessionRepository,
	studentRepo repositories.StudentRepository,
) services.ReportService {
	return &ReportServiceImpl{
		sessionRepo: sessionRepo,
		studentRepo: studentRepo,
	}
}

func (s *ReportServiceImpl) MonthlyCSV(ctx context.Context, yearMonth string) ([]byte, error) {
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

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "PresentDays", "LateDays", "AbsentDays", "TotalAttended"}); err != nil {
		return nil, err
	}
	for _, student := range students {
		summary := attendance.SummarizeRange(student.ID, dates, sessions)
		row := []string{
			student.Name,
			strconv.Itoa(summary.PresentDays),
			strconv.Itoa(summary.LateDays),
			strconv.Itoa(summary.AbsentDays),
			strconv.Itoa(summary.TotalAttended),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportServiceImpl) RawLogCSV(ctx context.Context) ([]byte, error) {
	students, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	names := make(map[uuid.UUID]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	sessions, _, err := s.sessionRepo.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "StudentName", "Status", "Confidence", "Timestamp"}); err != nil {
		return nil, err
	}
	for _, session := range sessions {
		for _, record := range session.Records {
			name, ok := names[record.StudentID]
			if !ok {
				name = removedStudentLabel
			}
			row := []string{
				session.Date,
				name,
				string(record.Status),
				fmt.Sprintf("%d%%", record.Confidence),
				record.CreatedAt.Format(time.RFC3339),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
