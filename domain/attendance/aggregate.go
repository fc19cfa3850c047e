package attendance

import (
	"math"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

// UnmarkedPolicy controls how students without any record for a date are
// tallied in cohort summaries. Collapsing is a reporting policy, not a data
// fact, so it is a caller-supplied parameter rather than baked into Resolve.
type UnmarkedPolicy string

const (
	// CollapseUnmarked counts unmarked students as absent (headline dashboards).
	CollapseUnmarked UnmarkedPolicy = "collapse"
	// KeepUnmarked keeps unmarked students in their own bucket (detail grids).
	KeepUnmarked UnmarkedPolicy = "keep"
)

// CohortSummary is a single-date rollup over the whole roster.
type CohortSummary struct {
	Date     string `json:"date"`
	Present  int    `json:"present"`
	Late     int    `json:"late"`
	Absent   int    `json:"absent"`
	Unmarked int    `json:"unmarked"`
	Total    int    `json:"total"`

	PresentPercent int `json:"present_percent"`
	LatePercent    int `json:"late_percent"`
	AbsentPercent  int `json:"absent_percent"`
}

// RangeSummary is a per-student rollup over a set of dates. Late days count
// toward TotalAttended but not toward the present headline. Unmarked days
// are exposed rather than silently dropped.
type RangeSummary struct {
	StudentID     uuid.UUID `json:"student_id"`
	PresentDays   int       `json:"present_days"`
	LateDays      int       `json:"late_days"`
	AbsentDays    int       `json:"absent_days"`
	UnmarkedDays  int       `json:"unmarked_days"`
	TotalAttended int       `json:"total_attended"`
}

// SummarizeCohort resolves every roster student's status for one date and
// tallies the results under the supplied unmarked policy. Output depends
// only on (students, sessions, policy), never on the order sessions were
// created or supplied. An empty roster yields zeros, never a division error.
func SummarizeCohort(date string, students []models.Student, sessions []models.AttendanceSession, policy UnmarkedPolicy) CohortSummary {
	summary := CohortSummary{Date: date, Total: len(students)}

	for _, student := range students {
		status := ResolveFor(student.ID, date, sessions)
		if status == models.StatusUnmarked && policy == CollapseUnmarked {
			status = models.StatusAbsent
		}
		switch status {
		case models.StatusPresent:
			summary.Present++
		case models.StatusLate:
			summary.Late++
		case models.StatusAbsent:
			summary.Absent++
		default:
			summary.Unmarked++
		}
	}

	summary.PresentPercent = percent(summary.Present, summary.Total)
	summary.LatePercent = percent(summary.Late, summary.Total)
	summary.AbsentPercent = percent(summary.Absent, summary.Total)
	return summary
}

// SummarizeRange resolves one student's status for each date in dates and
// counts the outcomes.
func SummarizeRange(studentID uuid.UUID, dates []string, sessions []models.AttendanceSession) RangeSummary {
	summary := RangeSummary{StudentID: studentID}
	for _, date := range dates {
		switch ResolveFor(studentID, date, sessions) {
		case models.StatusPresent:
			summary.PresentDays++
		case models.StatusLate:
			summary.LateDays++
		case models.StatusAbsent:
			summary.AbsentDays++
		default:
			summary.UnmarkedDays++
		}
	}
	summary.TotalAttended = summary.PresentDays + summary.LateDays
	return summary
}

// StatusByDate resolves one student's status for each date, for grid views.
func StatusByDate(studentID uuid.UUID, dates []string, sessions []models.AttendanceSession) map[string]models.AttendanceStatus {
	statuses := make(map[string]models.AttendanceStatus, len(dates))
	for _, date := range dates {
		statuses[date] = ResolveFor(studentID, date, sessions)
	}
	return statuses
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
