package serviceimpl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/models"
	"smart-attendance/domain/services"
	"smart-attendance/infrastructure/recognition"
)

type fakeStudentRepo struct {
	students []models.Student
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, id uuid.UUID, student *models.Student) error {
	for i := range f.students {
		if f.students[i].ID == id {
			student.ID = id
			f.students[i] = *student
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.students {
		if f.students[i].ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.students)), nil
}

type fakeSessionRepo struct {
	sessions []*models.AttendanceSession
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.AttendanceSession) error {
	seen := make(map[uuid.UUID]bool, len(session.Records))
	for _, record := range session.Records {
		if seen[record.StudentID] {
			return services.ErrDuplicateRecord
		}
		seen[record.StudentID] = true
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	for i := range session.Records {
		if session.Records[i].ID == uuid.Nil {
			session.Records[i].ID = uuid.New()
		}
		session.Records[i].SessionID = session.ID
	}
	stored := *session
	stored.Records = append([]models.AttendanceRecord(nil), session.Records...)
	f.sessions = append(f.sessions, &stored)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error) {
	for _, session := range f.sessions {
		if session.ID == id {
			copied := *session
			copied.Records = append([]models.AttendanceRecord(nil), session.Records...)
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) ListByDate(ctx context.Context, date string) ([]models.AttendanceSession, error) {
	var out []models.AttendanceSession
	for _, session := range f.sessions {
		if session.Date != date {
			continue
		}
		copied := *session
		copied.Records = append([]models.AttendanceRecord(nil), session.Records...)
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeSessionRepo) ListByDates(ctx context.Context, dates []string) ([]models.AttendanceSession, error) {
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	var out []models.AttendanceSession
	for _, session := range f.sessions {
		if !wanted[session.Date] {
			continue
		}
		copied := *session
		copied.Records = append([]models.AttendanceRecord(nil), session.Records...)
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeSessionRepo) ListAll(ctx context.Context, offset, limit int) ([]models.AttendanceSession, int64, error) {
	var out []models.AttendanceSession
	for _, session := range f.sessions {
		copied := *session
		copied.Records = append([]models.AttendanceRecord(nil), session.Records...)
		out = append(out, copied)
	}
	total := int64(len(out))
	if limit > 0 {
		if offset >= len(out) {
			return nil, total, nil
		}
		end := offset + limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, total, nil
}

func (f *fakeSessionRepo) AddRecord(ctx context.Context, sessionID uuid.UUID, record *models.AttendanceRecord) error {
	for _, session := range f.sessions {
		if session.ID != sessionID {
			continue
		}
		for _, existing := range session.Records {
			if existing.StudentID == record.StudentID {
				return services.ErrDuplicateRecord
			}
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		record.SessionID = sessionID
		session.Records = append(session.Records, *record)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) UpdateRecord(ctx context.Context, recordID uuid.UUID, record *models.AttendanceRecord) error {
	for _, session := range f.sessions {
		for i := range session.Records {
			if session.Records[i].ID == recordID {
				session.Records[i].Status = record.Status
				session.Records[i].Confidence = record.Confidence
				session.Records[i].Note = record.Note
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.sessions)), nil
}

type fakeRecognizer struct {
	proposals []recognition.Proposal
	err       error
	called    bool
}

func (f *fakeRecognizer) AnalyzeClassroom(ctx context.Context, classroomPhoto []byte, mimeType string, students []models.Student) ([]recognition.Proposal, error) {
	f.called = true
	return f.proposals, f.err
}

func newTestService(studentRepo *fakeStudentRepo, sessionRepo *fakeSessionRepo) services.AttendanceService {
	return NewAttendanceService(sessionRepo, studentRepo, nil, nil)
}

func rosterOf(names ...string) *fakeStudentRepo {
	repo := &fakeStudentRepo{}
	for _, name := range names {
		repo.students = append(repo.students, models.Student{ID: uuid.New(), Name: name})
	}
	return repo
}

func TestSaveSessionStoresRecords(t *testing.T) {
	students := rosterOf("Alice", "Bob")
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	session, err := svc.SaveSession(context.Background(), "2024-03-01", "photo", []services.RecordInput{
		{StudentID: students.students[0].ID, Status: models.StatusPresent, Confidence: 91},
		{StudentID: students.students[1].ID, Status: models.StatusAbsent, Confidence: 0},
	})
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if session.ID == uuid.Nil {
		t.Fatal("session ID not assigned")
	}
	if len(session.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(session.Records))
	}
	if session.Records[0].SessionID != session.ID {
		t.Fatal("record not linked to session")
	}
}

func TestSaveSessionValidation(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID

	tests := []struct {
		name    string
		date    string
		records []services.RecordInput
		wantErr error
	}{
		{
			name:    "bad date",
			date:    "03/01/2024",
			wantErr: attendance.ErrInvalidDate,
		},
		{
			name:    "unmarked is not storable",
			date:    "2024-03-01",
			records: []services.RecordInput{{StudentID: alice, Status: models.StatusUnmarked}},
			wantErr: services.ErrInvalidStatus,
		},
		{
			name:    "unknown status",
			date:    "2024-03-01",
			records: []services.RecordInput{{StudentID: alice, Status: "tardy"}},
			wantErr: services.ErrInvalidStatus,
		},
		{
			name:    "confidence out of range",
			date:    "2024-03-01",
			records: []services.RecordInput{{StudentID: alice, Status: models.StatusPresent, Confidence: 101}},
			wantErr: services.ErrInvalidConfidence,
		},
		{
			name: "duplicate student in one session",
			date: "2024-03-01",
			records: []services.RecordInput{
				{StudentID: alice, Status: models.StatusPresent},
				{StudentID: alice, Status: models.StatusLate},
			},
			wantErr: services.ErrDuplicateRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(students, &fakeSessionRepo{})
			_, err := svc.SaveSession(context.Background(), tt.date, "", tt.records)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListSessionsFiltersByDate(t *testing.T) {
	students := rosterOf("Alice")
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	for _, date := range []string{"2024-03-01", "2024-03-01", "2024-03-02"} {
		if _, err := svc.SaveSession(context.Background(), date, "", nil); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	got, total, err := svc.ListSessions(context.Background(), "2024-03-01", 1, 20)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("total = %d len = %d, want 2", total, len(got))
	}
	for _, session := range got {
		if session.Date != "2024-03-01" {
			t.Fatalf("got session for %s", session.Date)
		}
	}
}

func TestApplyOverrideCreatesManualSession(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	session, err := svc.ApplyOverride(context.Background(), alice, "2024-03-01", models.StatusLate)
	if err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}

	if session.ClassroomPhoto != "" {
		t.Fatal("manual session should carry no classroom photo")
	}
	if len(session.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(session.Records))
	}
	record := session.Records[0]
	if record.StudentID != alice || record.Status != models.StatusLate {
		t.Fatalf("record = %+v", record)
	}
	if record.Confidence != 100 {
		t.Fatalf("confidence = %d, want 100", record.Confidence)
	}
}

func TestApplyOverrideAmendsFirstSession(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	// Two sessions the same day; the earlier one recorded Alice absent.
	first, err := svc.SaveSession(context.Background(), "2024-03-01", "p1", []services.RecordInput{
		{StudentID: alice, Status: models.StatusAbsent, Confidence: 40},
	})
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	second, err := svc.SaveSession(context.Background(), "2024-03-01", "p2", []services.RecordInput{
		{StudentID: alice, Status: models.StatusAbsent, Confidence: 40},
	})
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := svc.ApplyOverride(context.Background(), alice, "2024-03-01", models.StatusPresent)
	if err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("override landed in session %s, want first session %s", got.ID, first.ID)
	}
	if got.Records[0].Status != models.StatusPresent || got.Records[0].Confidence != 100 {
		t.Fatalf("record = %+v", got.Records[0])
	}

	// The later session stays untouched.
	untouched, err := svc.GetSession(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if untouched.Records[0].Status != models.StatusAbsent || untouched.Records[0].Confidence != 40 {
		t.Fatalf("second session was modified: %+v", untouched.Records[0])
	}
}

func TestApplyOverrideTwiceLeavesOneRecord(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	if _, err := svc.ApplyOverride(context.Background(), alice, "2024-03-01", models.StatusAbsent); err != nil {
		t.Fatalf("first override: %v", err)
	}
	got, err := svc.ApplyOverride(context.Background(), alice, "2024-03-01", models.StatusLate)
	if err != nil {
		t.Fatalf("second override: %v", err)
	}

	if len(sessions.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions.sessions))
	}
	if len(got.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(got.Records))
	}
	if got.Records[0].Status != models.StatusLate {
		t.Fatalf("status = %s, want late", got.Records[0].Status)
	}
}

func TestApplyOverrideAddsRecordWhenMissing(t *testing.T) {
	students := rosterOf("Alice", "Bob")
	alice := students.students[0].ID
	bob := students.students[1].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	if _, err := svc.SaveSession(context.Background(), "2024-03-01", "p", []services.RecordInput{
		{StudentID: alice, Status: models.StatusPresent, Confidence: 90},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := svc.ApplyOverride(context.Background(), bob, "2024-03-01", models.StatusPresent)
	if err != nil {
		t.Fatalf("ApplyOverride: %v", err)
	}
	if len(got.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(got.Records))
	}
}

func TestApplyOverrideRejectsBadInput(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	svc := newTestService(students, &fakeSessionRepo{})

	if _, err := svc.ApplyOverride(context.Background(), alice, "bad-date", models.StatusPresent); !errors.Is(err, attendance.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.ApplyOverride(context.Background(), alice, "2024-03-01", "tardy"); !errors.Is(err, services.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.ApplyOverride(context.Background(), uuid.New(), "2024-03-01", models.StatusPresent); !errors.Is(err, services.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestToggleStatusCycle(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	// Unmarked student starts the cycle at present, then walks
	// present -> absent -> late -> present.
	want := []models.AttendanceStatus{
		models.StatusPresent,
		models.StatusAbsent,
		models.StatusLate,
		models.StatusPresent,
	}
	for i, expected := range want {
		got, err := svc.ToggleStatus(context.Background(), alice, "2024-03-01")
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got != expected {
			t.Fatalf("toggle %d = %s, want %s", i, got, expected)
		}
	}

	if len(sessions.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions.sessions))
	}
}

func TestDailySummaryResolvesAcrossSessions(t *testing.T) {
	students := rosterOf("Alice", "Bob")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	// Alice was late in the first scan and present in a later one; present
	// wins. Bob never shows up in any session and collapses into absent.
	if _, err := svc.SaveSession(context.Background(), "2024-03-01", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusLate, Confidence: 70},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if _, err := svc.SaveSession(context.Background(), "2024-03-01", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusPresent, Confidence: 95},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	summary, err := svc.DailySummary(context.Background(), "2024-03-01", attendance.CollapseUnmarked)
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if summary.Present != 1 || summary.Late != 0 || summary.Absent != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Total != 2 {
		t.Fatalf("total = %d, want 2", summary.Total)
	}

	kept, err := svc.DailySummary(context.Background(), "2024-03-01", attendance.KeepUnmarked)
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if kept.Absent != 0 || kept.Unmarked != 1 {
		t.Fatalf("kept = %+v", kept)
	}
}

func TestMonthlyReportBuildsGridPerStudent(t *testing.T) {
	students := rosterOf("Alice")
	alice := students.students[0].ID
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	if _, err := svc.SaveSession(context.Background(), "2024-02-05", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusPresent, Confidence: 88},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if _, err := svc.SaveSession(context.Background(), "2024-02-06", "", []services.RecordInput{
		{StudentID: alice, Status: models.StatusLate, Confidence: 60},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	report, err := svc.MonthlyReport(context.Background(), "2024-02")
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if len(report.Dates) != 29 {
		t.Fatalf("dates = %d, want 29 for 2024-02", len(report.Dates))
	}
	if len(report.Students) != 1 {
		t.Fatalf("students = %d, want 1", len(report.Students))
	}

	row := report.Students[0]
	if row.Summary.PresentDays != 1 || row.Summary.LateDays != 1 {
		t.Fatalf("summary = %+v", row.Summary)
	}
	if row.Summary.TotalAttended != 2 {
		t.Fatalf("total attended = %d, want 2", row.Summary.TotalAttended)
	}
	if row.Grid["2024-02-05"] != models.StatusPresent || row.Grid["2024-02-06"] != models.StatusLate {
		t.Fatalf("grid = %v", row.Grid)
	}
	if row.Grid["2024-02-07"] != models.StatusUnmarked {
		t.Fatalf("day without sessions = %s, want unmarked", row.Grid["2024-02-07"])
	}
}

func TestScanClassroomWithoutRecognizer(t *testing.T) {
	svc := newTestService(rosterOf("Alice"), &fakeSessionRepo{})

	if _, err := svc.ScanClassroom(context.Background(), []byte("img"), "image/jpeg"); err == nil {
		t.Fatal("expected error when recognition is not configured")
	}
}

func TestScanClassroomMapsProposalsOntoRoster(t *testing.T) {
	students := rosterOf("Alice", "Bob", "Carol", "Dave")
	alice := students.students[0].ID
	bob := students.students[1].ID
	dave := students.students[3].ID

	// Bob is reported not present, Carol is not reported at all, Dave comes
	// back with an out-of-range confidence.
	rec := &fakeRecognizer{proposals: []recognition.Proposal{
		{StudentID: alice.String(), Present: true, Confidence: 92},
		{StudentID: bob.String(), Present: false, Confidence: 80},
		{StudentID: dave.String(), Present: true, Confidence: 250},
	}}
	svc := NewAttendanceService(&fakeSessionRepo{}, students, rec, nil)

	results, err := svc.ScanClassroom(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("ScanClassroom: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want one per roster student", len(results))
	}

	want := []struct {
		name       string
		status     models.AttendanceStatus
		confidence int
	}{
		{"Alice", models.StatusPresent, 92},
		{"Bob", models.StatusAbsent, 0},
		{"Carol", models.StatusAbsent, 0},
		{"Dave", models.StatusPresent, 100},
	}
	for i, w := range want {
		got := results[i]
		if got.Name != w.name || got.Status != w.status || got.Confidence != w.confidence {
			t.Fatalf("result %d = %s/%s/%d, want %s/%s/%d",
				i, got.Name, got.Status, got.Confidence, w.name, w.status, w.confidence)
		}
	}
}

func TestScanClassroomEmptyRosterSkipsRecognizer(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("should not be called")}
	svc := NewAttendanceService(&fakeSessionRepo{}, &fakeStudentRepo{}, rec, nil)

	results, err := svc.ScanClassroom(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("ScanClassroom: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %d, want 0", len(results))
	}
	if rec.called {
		t.Fatal("recognizer called for empty roster")
	}
}

func TestScanClassroomRecognizerFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("upstream down")}
	svc := NewAttendanceService(&fakeSessionRepo{}, rosterOf("Alice"), rec, nil)

	if _, err := svc.ScanClassroom(context.Background(), []byte("img"), "image/jpeg"); err == nil {
		t.Fatal("expected recognizer failure to surface")
	}
}

func TestListSessionsPaginatesDateFilter(t *testing.T) {
	students := rosterOf("Alice")
	sessions := &fakeSessionRepo{}
	svc := newTestService(students, sessions)

	for i := 0; i < 3; i++ {
		if _, err := svc.SaveSession(context.Background(), "2024-03-01", "", nil); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	got, total, err := svc.ListSessions(context.Background(), "2024-03-01", 2, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(got) != 1 {
		t.Fatalf("page 2 of limit 2 over 3 sessions = %d sessions, want 1", len(got))
	}

	got, total, err = svc.ListSessions(context.Background(), "2024-03-01", 3, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if total != 3 || len(got) != 0 {
		t.Fatalf("past-the-end page = %d sessions (total %d), want 0 (total 3)", len(got), total)
	}
}
