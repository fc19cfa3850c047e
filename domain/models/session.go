package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the status recorded for a student within one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"

	// StatusUnmarked means no record exists for a student on a date.
	// It is derived only and never stored.
	StatusUnmarked AttendanceStatus = "unmarked"
)

// Valid reports whether s is a status that may be stored in a record.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusLate || s == StatusAbsent
}

type AttendanceSession struct {
	ID uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`

	// Calendar date the session was taken for (YYYY-MM-DD, day granularity).
	// Multiple sessions may exist for the same date.
	Date string `gorm:"not null;index"`

	// Classroom scan photo (base64). Empty for manually created sessions.
	ClassroomPhoto string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Records []AttendanceRecord `gorm:"foreignKey:SessionID"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

type AttendanceRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_records_session_student"`

	// Plain uuid column without a foreign key constraint: deleting a student
	// must not cascade into historical records.
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_records_session_student;index"`

	Status AttendanceStatus `gorm:"not null"`

	// Matching confidence 0-100. 100 for manually entered records.
	Confidence int    `gorm:"not null;default:0"`
	Note       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
