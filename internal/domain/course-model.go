package domain

import "time"

// Course enumerates the branches a student of that course may belong to.
// Branch membership is matched case-insensitively (see utils.ContainsFold).
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Branches  []string  `gorm:"serializer:json" json:"branches"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
