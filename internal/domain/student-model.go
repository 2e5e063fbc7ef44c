package domain

import (
	"gorm.io/gorm"
)

type Student struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `json:"user,omitempty"`

	// Academic attributes evaluated against job eligibility criteria.
	CourseID       uint    `gorm:"not null" json:"course_id"`
	Course         Course  `json:"course,omitempty"`
	Branch         string  `gorm:"not null" json:"branch"`
	CGPA           float64 `gorm:"not null" json:"cgpa"`
	TenthPercent   float64 `gorm:"not null" json:"tenth_percent"`
	TwelfthPercent float64 `gorm:"not null" json:"twelfth_percent"`
	PassingYear    int     `json:"passing_year"`
	Backlogs       int     `gorm:"default:0" json:"backlogs"`
	GapYears       int     `gorm:"default:0" json:"gap_years"`
	Semester       int     `gorm:"not null" json:"semester"`

	Skills []string `gorm:"serializer:json" json:"skills"`

	// Document links resolved by the upload store. The apply gate only
	// checks presence, never content.
	ResumeLink       string `json:"resume_link"`
	TenthMarksheet   string `json:"tenth_marksheet"`
	TwelfthMarksheet string `json:"twelfth_marksheet"`

	ResumeData map[string]interface{} `gorm:"serializer:json" json:"resume_data,omitempty"`

	gorm.Model
}

// MissingDocuments returns the human-readable names of required documents
// the student has not uploaded yet. Empty means the profile is complete.
func (s Student) MissingDocuments() []string {
	var missing []string
	if s.ResumeLink == "" {
		missing = append(missing, "Resume")
	}
	if s.TenthMarksheet == "" {
		missing = append(missing, "10th Marksheet")
	}
	if s.TwelfthMarksheet == "" {
		missing = append(missing, "12th Marksheet")
	}
	return missing
}
