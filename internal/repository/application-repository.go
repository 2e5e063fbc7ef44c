package repository

import (
	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/helper"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(app *domain.Application) error
	FindByJobAndStudent(jobID, studentID uint) (*domain.Application, error)
	ListByJob(jobID uint) ([]domain.Application, error)
	ListByStudent(studentID uint) ([]domain.Application, error)
	Save(app *domain.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (a *applicationRepository) Create(app *domain.Application) error {
	if err := a.db.Create(app).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (a *applicationRepository) FindByJobAndStudent(jobID, studentID uint) (*domain.Application, error) {
	var app domain.Application
	err := a.db.Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *applicationRepository) ListByJob(jobID uint) ([]domain.Application, error) {
	var apps []domain.Application
	if err := a.db.Where("job_id = ?", jobID).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *applicationRepository) ListByStudent(studentID uint) ([]domain.Application, error) {
	var apps []domain.Application
	if err := a.db.Where("student_id = ?", studentID).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *applicationRepository) Save(app *domain.Application) error {
	return a.db.Save(app).Error
}
