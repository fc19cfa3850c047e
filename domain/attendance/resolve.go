// Package attendance holds the pure consolidation rules for attendance data:
// deriving one authoritative status per student per day from possibly
// multiple, possibly conflicting session records, and rolling those statuses
// up over date ranges. Everything in this package is a pure function over
// the inputs it is handed; loading sessions and persisting corrections is
// the repository layer's job.
package attendance

import (
	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

// Resolve derives a single status from every record for one (student, date).
// Precedence: present beats late beats absent beats no record (unmarked).
// The scan is order-independent and idempotent: a weaker record never
// overwrites a stronger one, so feeding the same records in any order yields
// the same result. Duplicate records for the same student are tolerated and
// simply feed the same precedence scan.
func Resolve(records []models.AttendanceRecord) models.AttendanceStatus {
	best := models.StatusUnmarked
	for _, r := range records {
		switch {
		case r.Status == models.StatusPresent:
			return models.StatusPresent
		case r.Status == models.StatusLate:
			best = models.StatusLate
		case best == models.StatusUnmarked:
			best = models.StatusAbsent
		}
	}
	return best
}

// ResolveFor resolves one student's status for date across every matching
// session. Sessions for other dates are ignored, so the caller may pass an
// unfiltered collection.
func ResolveFor(studentID uuid.UUID, date string, sessions []models.AttendanceSession) models.AttendanceStatus {
	best := models.StatusUnmarked
	for _, s := range sessions {
		if s.Date != date {
			continue
		}
		for _, r := range s.Records {
			if r.StudentID != studentID {
				continue
			}
			switch {
			case r.Status == models.StatusPresent:
				return models.StatusPresent
			case r.Status == models.StatusLate:
				best = models.StatusLate
			case best == models.StatusUnmarked:
				best = models.StatusAbsent
			}
		}
	}
	return best
}

// NextStatus returns the next status in the manual toggle cycle
// present -> absent -> late -> present; unmarked starts the cycle at present.
// This is a UI editing convenience layered on top of overrides, kept
// separate so it can be tested on its own.
func NextStatus(current models.AttendanceStatus) models.AttendanceStatus {
	switch current {
	case models.StatusPresent:
		return models.StatusAbsent
	case models.StatusAbsent:
		return models.StatusLate
	case models.StatusLate:
		return models.StatusPresent
	default:
		return models.StatusPresent
	}
}
