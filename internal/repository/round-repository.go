package repository

import (
	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type RoundRepository interface {
	// UpsertRoster writes the roster for (job, round), resetting MailSent.
	// A re-upload for the same round is last-writer-wins by design.
	UpsertRoster(round *domain.JobRound) error
	FindByJobAndRound(jobID uint, roundType string) (*domain.JobRound, error)
	ListByJob(jobID uint) ([]domain.JobRound, error)
	MarkMailSent(id uint) error
}

type roundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) UpsertRoster(round *domain.JobRound) error {
	round.MailSent = false
	return r.db.
		Where("job_id = ? AND round_type = ?", round.JobID, round.RoundType).
		Assign(map[string]any{
			"selected_students": round.SelectedStudents,
			"result_file":       round.ResultFile,
			"mail_sent":         false,
		}).
		FirstOrCreate(round).Error
}

func (r *roundRepository) FindByJobAndRound(jobID uint, roundType string) (*domain.JobRound, error) {
	var round domain.JobRound
	err := r.db.Where("job_id = ? AND round_type = ?", jobID, roundType).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) ListByJob(jobID uint) ([]domain.JobRound, error) {
	var rounds []domain.JobRound
	if err := r.db.Where("job_id = ?", jobID).Find(&rounds).Error; err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *roundRepository) MarkMailSent(id uint) error {
	return r.db.Model(&domain.JobRound{}).
		Where("id = ?", id).
		Update("mail_sent", true).Error
}
