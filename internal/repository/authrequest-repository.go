package repository

import (
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type AuthRequestRepository interface {
	Create(req *domain.AuthRequest) error
	FindByID(id uint) (*domain.AuthRequest, error)
	ListAll() ([]domain.AuthRequest, error)
	Save(req *domain.AuthRequest) error
	Delete(id uint) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type authRequestRepository struct {
	db *gorm.DB
}

func NewAuthRequestRepository(db *gorm.DB) AuthRequestRepository {
	return &authRequestRepository{db: db}
}

func (a *authRequestRepository) Create(req *domain.AuthRequest) error {
	return a.db.Create(req).Error
}

func (a *authRequestRepository) FindByID(id uint) (*domain.AuthRequest, error) {
	var req domain.AuthRequest
	if err := a.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (a *authRequestRepository) ListAll() ([]domain.AuthRequest, error) {
	var reqs []domain.AuthRequest
	err := a.db.Preload("Student").Preload("Student.User").
		Order("created_at DESC").Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (a *authRequestRepository) Save(req *domain.AuthRequest) error {
	return a.db.Save(req).Error
}

func (a *authRequestRepository) Delete(id uint) error {
	return a.db.Unscoped().Delete(&domain.AuthRequest{}, id).Error
}

// DeleteOlderThan hard-deletes requests created before cutoff. The delete
// is idempotent by construction, so overlapping sweep runs are harmless.
func (a *authRequestRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := a.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&domain.AuthRequest{})
	return res.RowsAffected, res.Error
}
