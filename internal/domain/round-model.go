package domain

import "time"

// JobRound persists the uploaded roster for one (job, round) pair.
// MailSent guards the selected-students mail so repeat notify calls
// cannot double-send; it is independent of the rejection mail dispatched
// when the round closes.
type JobRound struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	JobID            uint      `gorm:"not null;uniqueIndex:idx_job_roundtype" json:"job_id"`
	RoundType        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_job_roundtype" json:"round_type"`
	SelectedStudents []uint    `gorm:"serializer:json" json:"selected_students"`
	ResultFile       string    `json:"result_file"`
	MailSent         bool      `gorm:"default:false" json:"mail_sent"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
