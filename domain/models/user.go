package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Username string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"` // bcrypt hash

	Role      string `gorm:"default:'teacher'"`
	IsActive  bool   `gorm:"default:true"`
	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
