package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobActive   = "active"
	JobInactive = "inactive"
	JobTaken    = "taken"
)

// Eligibility holds the job-side thresholds a student must satisfy.
// Zero values mean "not set" and are resolved through WithDefaults before
// any evaluation, so the notification filter and the apply gate always
// see the same effective criteria.
type Eligibility struct {
	MinCGPA           float64  `json:"min_cgpa"`
	MaxBacklogs       int      `json:"max_backlogs"`
	AllowedGapYears   int      `json:"allowed_gap_years"`
	SemestersAllowed  []int    `gorm:"serializer:json" json:"semesters_allowed"`
	BranchesAllowed   []string `gorm:"serializer:json" json:"branches_allowed"`
	MinTenthPercent   float64  `json:"min_tenth_percent"`
	MinTwelfthPercent float64  `json:"min_twelfth_percent"`
}

// WithDefaults fills absent thresholds with the documented defaulting
// table: {minCGPA:5.0, maxBacklogs:0, allowedGapYears:0,
// semestersAllowed:[1..10], branchesAllowed:[]}. An empty branch list
// stays empty on purpose: it admits nobody rather than everybody.
func (e Eligibility) WithDefaults() Eligibility {
	if e.MinCGPA == 0 {
		e.MinCGPA = 5.0
	}
	if len(e.SemestersAllowed) == 0 {
		e.SemestersAllowed = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	}
	return e
}

type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Salary      float64   `gorm:"not null" json:"salary"`
	Vacancy     int       `gorm:"not null" json:"vacancy"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	Logo        string    `json:"logo"`

	Status         string      `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CoursesAllowed []string    `gorm:"serializer:json" json:"courses_allowed"`
	Eligibility    Eligibility `gorm:"embedded;embeddedPrefix:elig_" json:"eligibility"`

	CreatedBy uint `json:"created_by"`

	gorm.Model
}

func (j Job) DeadlinePassed(now time.Time) bool {
	return j.Deadline.Before(now)
}
