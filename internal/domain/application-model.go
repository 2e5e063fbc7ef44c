package domain

import "gorm.io/gorm"

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

const (
	RoundOA        = "oa"
	RoundCoding    = "coding"
	RoundTechnical = "technical"
	RoundHR        = "hr"
	RoundFinal     = "final"
)

const (
	RoundPending  = "pending"
	RoundSelected = "selected"
	RoundRejected = "rejected"
)

// RoundOrder lists the five fixed interview rounds in sequence.
var RoundOrder = []string{RoundOA, RoundCoding, RoundTechnical, RoundHR, RoundFinal}

func IsValidRound(roundType string) bool {
	for _, r := range RoundOrder {
		if r == roundType {
			return true
		}
	}
	return false
}

// RoundStatusMap tracks each round's outcome for one application. Keys are
// the RoundOrder values, each pending, selected or rejected.
type RoundStatusMap map[string]string

func NewRoundStatus() RoundStatusMap {
	m := make(RoundStatusMap, len(RoundOrder))
	for _, r := range RoundOrder {
		m[r] = RoundPending
	}
	return m
}

// Application links one student to one job. The (job, student) pair is
// unique; the composite index backs the duplicate-apply guard.
type Application struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	JobID     uint `gorm:"not null;uniqueIndex:idx_job_student" json:"job_id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_job_student" json:"student_id"`

	Status      string         `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	RoundStatus RoundStatusMap `gorm:"serializer:json" json:"round_status"`

	gorm.Model
}
