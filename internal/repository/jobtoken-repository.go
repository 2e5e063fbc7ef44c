package repository

import (
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type JobTokenRepository interface {
	Create(token *domain.JobToken) error
	FindByToken(token string) (*domain.JobToken, error)
	DeleteExpired(before time.Time) (int64, error)
}

type jobTokenRepository struct {
	db *gorm.DB
}

func NewJobTokenRepository(db *gorm.DB) JobTokenRepository {
	return &jobTokenRepository{db: db}
}

func (r *jobTokenRepository) Create(token *domain.JobToken) error {
	return r.db.Create(token).Error
}

func (r *jobTokenRepository) FindByToken(token string) (*domain.JobToken, error) {
	var t domain.JobToken
	if err := r.db.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *jobTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", before).Delete(&domain.JobToken{})
	return res.RowsAffected, res.Error
}
