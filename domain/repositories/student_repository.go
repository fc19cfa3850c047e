package repositories

import (
	"context"

	"github.com/google/uuid"

	"smart-attendance/domain/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	// ListAll returns the roster ordered by name for stable dashboard ordering.
	ListAll(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, id uuid.UUID, student *models.Student) error
	// Delete removes the student only. Historical attendance records keep
	// the student id and must not be cascade-deleted.
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
