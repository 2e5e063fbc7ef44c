package domain

import "gorm.io/gorm"

const (
	AuthRequestPending  = "pending"
	AuthRequestApproved = "approved"
	AuthRequestRejected = "rejected"
)

// CorrectableFields are the student attributes an AuthRequest may change.
var CorrectableFields = []string{
	"cgpa", "semester", "branch", "tenthPercent", "twelfthPercent", "backlogs",
}

func IsCorrectableField(field string) bool {
	for _, f := range CorrectableFields {
		if f == field {
			return true
		}
	}
	return false
}

// AuthRequest is a student's request to correct one profile field,
// applied to the Student record only on admin approval. Requests are
// purged three days after creation by the daily sweep.
type AuthRequest struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StudentID uint    `gorm:"not null" json:"student_id"`
	Student   Student `json:"student,omitempty"`

	Field    string `gorm:"type:varchar(30);not null" json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `gorm:"not null" json:"new_value"`
	Proof    string `json:"proof"`
	Status   string `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Remarks  string `json:"remarks"`

	gorm.Model
}
