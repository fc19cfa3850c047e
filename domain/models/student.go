package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`

	// Student info
	Name  string `gorm:"not null"`
	Photo string `gorm:"type:text"` // Base64 profile photo used for recognition

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Student) TableName() string {
	return "students"
}
