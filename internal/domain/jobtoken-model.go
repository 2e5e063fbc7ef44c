package domain

import "time"

// JobToken is the single-use apply link credential mailed to eligible
// students at job creation. Reuse after the bound application exists
// surfaces as a duplicate-apply error downstream.
type JobToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	JobID     uint      `gorm:"not null" json:"job_id"`
	StudentID uint      `gorm:"not null" json:"student_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t JobToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
