package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-attendance/domain/models"
	"smart-attendance/domain/repositories"
	"smart-attendance/domain/services"
	"smart-attendance/pkg/logger"
)

type StudentServiceImpl struct {
	studentRepo repositories.StudentRepository
}

func NewStudentService(studentRepo repositories.StudentRepository) services.StudentService {
	return &StudentServiceImpl{studentRepo: studentRepo}
}

func (s *StudentServiceImpl) Register(ctx context.Context, name, photo string) (*models.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("student name is required")
	}

	student := &models.Student{
		Name:  name,
		Photo: photo,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	logger.API("student_registered", "Student registered", map[string]interface{}{
		"student_id": student.ID.String(),
		"name":       student.Name,
	})
	return student, nil
}

func (s *StudentServiceImpl) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *StudentServiceImpl) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.studentRepo.ListAll(ctx)
}

func (s *StudentServiceImpl) UpdateStudent(ctx context.Context, id uuid.UUID, name, photo string) (*models.Student, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		student.Name = name
	}
	if photo != "" {
		student.Photo = photo
	}
	if err := s.studentRepo.Update(ctx, id, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

func (s *StudentServiceImpl) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetStudent(ctx, id); err != nil {
		return err
	}
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	logger.API("student_deleted", "Student removed from roster", map[string]interface{}{
		"student_id": id.String(),
	})
	return nil
}
