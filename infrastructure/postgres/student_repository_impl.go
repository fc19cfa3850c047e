package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smart-attendance/domain/models"
	"smart-attendance/domain/repositories"
)

type StudentRepositoryImpl struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) repositories.StudentRepository {
	return &StudentRepositoryImpl{db: db}
}

func (r *StudentRepositoryImpl) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *StudentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepositoryImpl) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).Order("name ASC").Find(&students).Error
	return students, err
}

func (r *StudentRepositoryImpl) Update(ctx context.Context, id uuid.UUID, student *models.Student) error {
	student.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Where("id = ?", id).Updates(student).Error
}

func (r *StudentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Records reference students by plain uuid, so history survives this.
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Student{}).Error
}

func (r *StudentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error
	return count, err
}
