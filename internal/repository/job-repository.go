package repository

import (
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(job *domain.Job) error
	FindByID(id uint) (*domain.Job, error)
	ListAll() ([]domain.Job, error)
	Update(job *domain.Job) error
	Delete(id uint) error
	UpdateStatus(id uint, status string) error
	DeactivateExpired(now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (j *jobRepository) Create(job *domain.Job) error {
	return j.db.Create(job).Error
}

func (j *jobRepository) FindByID(id uint) (*domain.Job, error) {
	var job domain.Job
	if err := j.db.First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *jobRepository) ListAll() ([]domain.Job, error) {
	var jobs []domain.Job
	if err := j.db.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (j *jobRepository) Update(job *domain.Job) error {
	return j.db.Save(job).Error
}

func (j *jobRepository) Delete(id uint) error {
	return j.db.Delete(&domain.Job{}, id).Error
}

func (j *jobRepository) UpdateStatus(id uint, status string) error {
	return j.db.Model(&domain.Job{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeactivateExpired flips active jobs past their deadline to inactive.
// Runs on every job list read, so reads of the job board are not pure.
func (j *jobRepository) DeactivateExpired(now time.Time) (int64, error) {
	res := j.db.Model(&domain.Job{}).
		Where("status = ? AND deadline < ?", domain.JobActive, now).
		Update("status", domain.JobInactive)
	return res.RowsAffected, res.Error
}
