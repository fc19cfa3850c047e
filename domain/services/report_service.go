package services

import (
	"context"
)

// ReportService serializes aggregated attendance to delimited rows for
// download. Names containing the delimiter are quoted; this is the only
// wire-format contract the engine exposes.
type ReportService interface {
	// MonthlyCSV produces one row per roster student for yearMonth:
	// Name, PresentDays, LateDays, AbsentDays, TotalAttended.
	MonthlyCSV(ctx context.Context, yearMonth string) ([]byte, error)

	// RawLogCSV produces one row per stored record:
	// Date, StudentName, Status, Confidence, Timestamp. Records whose
	// student no longer exists are attributed to a placeholder label
	// instead of failing the export.
	RawLogCSV(ctx context.Context) ([]byte, error)
}
