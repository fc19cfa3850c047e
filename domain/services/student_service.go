package services

import (
	"context"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

// StudentService handles roster management.
type StudentService interface {
	Register(ctx context.Context, name, photo string) (*models.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, name, photo string) (*models.Student, error)
	// DeleteStudent removes the student from the roster. Historical
	// attendance records are kept and reported under a placeholder name.
	DeleteStudent(ctx context.Context, id uuid.UUID) error
}
