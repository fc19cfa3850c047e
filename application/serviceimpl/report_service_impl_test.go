package serviceimpl

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
	"smart-attendance/domain/services"
)

func TestMonthlyCSVRollsUpPerStudent(t *testing.T) {
	students := rosterOf("Alice", "Bob")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	attendanceSvc := newTestService(students, sessions)
	svc := NewReportService(sessions, students)

	if _, err := attendanceSvc.SaveSession(context.Background(), "2024-02-05", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusPresent, Confidence: 90},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if _, err := attendanceSvc.SaveSession(context.Background(), "2024-02-06", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusLate, Confidence: 55},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	data, err := svc.MonthlyCSV(context.Background(), "2024-02")
	if err != nil {
		t.Fatalf("MonthlyCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 students", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "Name,PresentDays,LateDays,AbsentDays,TotalAttended" {
		t.Fatalf("header = %q", header)
	}

	aliceRow := rows[1]
	if aliceRow[0] != "Alice" || aliceRow[1] != "1" || aliceRow[2] != "1" || aliceRow[4] != "2" {
		t.Fatalf("alice row = %v", aliceRow)
	}
	bobRow := rows[2]
	if bobRow[0] != "Bob" || bobRow[4] != "0" {
		t.Fatalf("bob row = %v", bobRow)
	}
}

func TestMonthlyCSVQuotesDelimiterInNames(t *testing.T) {
	students := rosterOf(`Smith, Jane`)
	sessions := &fakeSessionRepo{}
	svc := NewReportService(sessions, students)

	data, err := svc.MonthlyCSV(context.Background(), "2024-02")
	if err != nil {
		t.Fatalf("MonthlyCSV: %v", err)
	}

	if !strings.Contains(string(data), `"Smith, Jane"`) {
		t.Fatalf("name with delimiter not quoted: %s", data)
	}

	// Round-trips through a CSV reader with the comma intact.
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if rows[1][0] != "Smith, Jane" {
		t.Fatalf("name = %q", rows[1][0])
	}
}

func TestRawLogCSVUsesPlaceholderForRemovedStudents(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	ghost := uuid.New() // recorded, then deleted from the roster
	sessions := &fakeSessionRepo{}
	attendanceSvc := newTestService(students, sessions)
	svc := NewReportService(sessions, students)

	if _, err := attendanceSvc.SaveSession(context.Background(), "2024-03-01", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusPresent, Confidence: 87},
		{StudentID: ghost, Status: models.StatusLate, Confidence: 42},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	data, err := svc.RawLogCSV(context.Background())
	if err != nil {
		t.Fatalf("RawLogCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "Date,StudentName,Status,Confidence,Timestamp" {
		t.Fatalf("header = %q", header)
	}

	if rows[1][1] != "Alice" || rows[1][2] != "present" || rows[1][3] != "87%" {
		t.Fatalf("alice row = %v", rows[1])
	}
	if rows[2][1] != "Removed Student" || rows[2][2] != "late" || rows[2][3] != "42%" {
		t.Fatalf("ghost row = %v", rows[2])
	}
	if rows[1][0] != "2024-03-01" {
		t.Fatalf("date = %q", rows[1][0])
	}
}
