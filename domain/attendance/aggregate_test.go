package attendance

import (
	"testing"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

func TestSummarizeCohortMergesAcrossSessions(t *testing.T) {
	alice := models.Student{ID: uuid.New(), Name: "Alice"}
	bob := models.Student{ID: uuid.New(), Name: "Bob"}
	roster := []models.Student{alice, bob}

	sessionA := models.AttendanceSession{
		ID:   uuid.New(),
		Date: "2024-03-01",
		Records: []models.AttendanceRecord{
			{StudentID: alice.ID, Status: models.StatusPresent, Confidence: 90},
		},
	}
	sessionB := models.AttendanceSession{
		ID:   uuid.New(),
		Date: "2024-03-01",
		Records: []models.AttendanceRecord{
			{StudentID: bob.ID, Status: models.StatusLate, Confidence: 70},
			{StudentID: alice.ID, Status: models.StatusAbsent, Confidence: 40},
		},
	}

	orderings := [][]models.AttendanceSession{
		{sessionA, sessionB},
		{sessionB, sessionA},
	}
	for _, sessions := range orderings {
		got := SummarizeCohort("2024-03-01", roster, sessions, CollapseUnmarked)
		if got.Present != 1 || got.Late != 1 || got.Absent != 0 || got.Total != 2 {
			t.Fatalf("summary = %+v, want present=1 late=1 absent=0 total=2", got)
		}
		if got.PresentPercent != 50 || got.LatePercent != 50 || got.AbsentPercent != 0 {
			t.Fatalf("percentages = %d/%d/%d, want 50/50/0",
				got.PresentPercent, got.LatePercent, got.AbsentPercent)
		}
	}
}

func TestSummarizeCohortUnmarkedPolicy(t *testing.T) {
	marked := models.Student{ID: uuid.New(), Name: "Marked"}
	unmarked := models.Student{ID: uuid.New(), Name: "Unmarked"}
	roster := []models.Student{marked, unmarked}

	sessions := []models.AttendanceSession{{
		ID:   uuid.New(),
		Date: "2024-03-01",
		Records: []models.AttendanceRecord{
			{StudentID: marked.ID, Status: models.StatusPresent},
		},
	}}

	collapsed := SummarizeCohort("2024-03-01", roster, sessions, CollapseUnmarked)
	if collapsed.Absent != 1 || collapsed.Unmarked != 0 {
		t.Fatalf("collapse: absent=%d unmarked=%d, want absent=1 unmarked=0",
			collapsed.Absent, collapsed.Unmarked)
	}
	if collapsed.Present+collapsed.Late+collapsed.Absent != collapsed.Total {
		t.Fatalf("collapse: buckets do not sum to total: %+v", collapsed)
	}

	kept := SummarizeCohort("2024-03-01", roster, sessions, KeepUnmarked)
	if kept.Absent != 0 || kept.Unmarked != 1 {
		t.Fatalf("keep: absent=%d unmarked=%d, want absent=0 unmarked=1",
			kept.Absent, kept.Unmarked)
	}
}

func TestSummarizeCohortPercentagesNearHundred(t *testing.T) {
	// Three students split one way each: rounding keeps the percentage sum
	// within 1 of 100.
	roster := []models.Student{
		{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()},
	}
	sessions := []models.AttendanceSession{{
		Date: "2024-03-01",
		Records: []models.AttendanceRecord{
			{StudentID: roster[0].ID, Status: models.StatusPresent},
			{StudentID: roster[1].ID, Status: models.StatusLate},
			{StudentID: roster[2].ID, Status: models.StatusAbsent},
		},
	}}

	got := SummarizeCohort("2024-03-01", roster, sessions, CollapseUnmarked)
	sum := got.PresentPercent + got.LatePercent + got.AbsentPercent
	if sum < 99 || sum > 101 {
		t.Fatalf("percentage sum = %d, want within 1 of 100", sum)
	}
}

func TestSummarizeCohortEmptyRoster(t *testing.T) {
	got := SummarizeCohort("2024-03-01", nil, nil, CollapseUnmarked)
	if got.Total != 0 {
		t.Fatalf("total = %d, want 0", got.Total)
	}
	if got.PresentPercent != 0 || got.LatePercent != 0 || got.AbsentPercent != 0 {
		t.Fatalf("empty roster percentages = %d/%d/%d, want all 0",
			got.PresentPercent, got.LatePercent, got.AbsentPercent)
	}
}

func TestSummarizeRange(t *testing.T) {
	student := uuid.New()
	sessions := []models.AttendanceSession{
		{Date: "2024-03-01", Records: []models.AttendanceRecord{{StudentID: student, Status: models.StatusPresent}}},
		{Date: "2024-03-02", Records: []models.AttendanceRecord{{StudentID: student, Status: models.StatusLate}}},
		{Date: "2024-03-03", Records: []models.AttendanceRecord{{StudentID: student, Status: models.StatusAbsent}}},
		// Conflicting second session for the 3rd: present wins.
		{Date: "2024-03-03", Records: []models.AttendanceRecord{{StudentID: student, Status: models.StatusPresent}}},
	}
	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}

	got := SummarizeRange(student, dates, sessions)
	if got.PresentDays != 2 || got.LateDays != 1 || got.AbsentDays != 0 || got.UnmarkedDays != 1 {
		t.Fatalf("range = %+v, want present=2 late=1 absent=0 unmarked=1", got)
	}
	if got.TotalAttended != 3 {
		t.Fatalf("total attended = %d, want 3", got.TotalAttended)
	}
}

func TestStatusByDate(t *testing.T) {
	student := uuid.New()
	sessions := []models.AttendanceSession{
		{Date: "2024-03-01", Records: []models.AttendanceRecord{{StudentID: student, Status: models.StatusLate}}},
	}
	statuses := StatusByDate(student, []string{"2024-03-01", "2024-03-02"}, sessions)
	if statuses["2024-03-01"] != models.StatusLate {
		t.Fatalf("2024-03-01 = %q, want late", statuses["2024-03-01"])
	}
	if statuses["2024-03-02"] != models.StatusUnmarked {
		t.Fatalf("2024-03-02 = %q, want unmarked", statuses["2024-03-02"])
	}
}
