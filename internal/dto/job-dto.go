package dto

import (
	"time"

	"github.com/placementcell/placement-service/internal/domain"
)

type JobCreateRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Salary      float64   `json:"salary" validate:"required,gte=1"`
	Vacancy     int       `json:"vacancy" validate:"required,gte=1,lte=2000"`
	Deadline    time.Time `json:"deadline" validate:"required"`

	CoursesAllowed []string `json:"courses_allowed" validate:"required,min=1"`

	MinCGPA           float64  `json:"min_cgpa" validate:"gte=0,lte=10"`
	MaxBacklogs       int      `json:"max_backlogs" validate:"gte=0,lte=10"`
	AllowedGapYears   int      `json:"allowed_gap_years" validate:"gte=0,lte=10"`
	SemestersAllowed  []int    `json:"semesters_allowed" validate:"dive,gte=1,lte=10"`
	BranchesAllowed   []string `json:"branches_allowed" validate:"required,min=1"`
	MinTenthPercent   float64  `json:"min_tenth_percent" validate:"gte=0,lte=100"`
	MinTwelfthPercent float64  `json:"min_twelfth_percent" validate:"gte=0,lte=100"`
}

func (r JobCreateRequest) ToJob(createdBy uint) domain.Job {
	return domain.Job{
		Title:          r.Title,
		Description:    r.Description,
		Salary:         r.Salary,
		Vacancy:        r.Vacancy,
		Deadline:       r.Deadline,
		Status:         domain.JobActive,
		CoursesAllowed: r.CoursesAllowed,
		CreatedBy:      createdBy,
		Eligibility: domain.Eligibility{
			MinCGPA:           r.MinCGPA,
			MaxBacklogs:       r.MaxBacklogs,
			AllowedGapYears:   r.AllowedGapYears,
			SemestersAllowed:  r.SemestersAllowed,
			BranchesAllowed:   r.BranchesAllowed,
			MinTenthPercent:   r.MinTenthPercent,
			MinTwelfthPercent: r.MinTwelfthPercent,
		},
	}
}

type JobUpdateRequest struct {
	Title       string     `json:"title,omitempty"`
	Salary      *float64   `json:"salary,omitempty" validate:"omitempty,gte=1"`
	Vacancy     *int       `json:"vacancy,omitempty" validate:"omitempty,gte=1,lte=2000"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Description string     `json:"description,omitempty"`
}

type JobCreateResponse struct {
	Job      domain.Job `json:"job"`
	Notified int        `json:"notified"`
}

type JobImportResponse struct {
	CreatedCount int `json:"created_count"`
	SkippedCount int `json:"skipped_count"`
}

// ApplicantRow is the merged admin view of one student against one job.
type ApplicantRow struct {
	StudentID         uint     `json:"student_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Course            string   `json:"course"`
	CGPA              float64  `json:"cgpa"`
	Branch            string   `json:"branch"`
	Semester          int      `json:"semester"`
	Backlogs          int      `json:"backlogs"`
	Skills            []string `json:"skills"`
	Resume            string   `json:"resume"`
	HasApplied        bool     `json:"has_applied"`
	ApplicationStatus string   `json:"application_status,omitempty"`
	SelectedInFinal   bool     `json:"selected_in_final_round"`
}

type ApplicantStats struct {
	TotalStudents      int `json:"total_students"`
	StudentsApplied    int `json:"students_applied"`
	StudentsNotApplied int `json:"students_not_applied"`
}

type JobApplicantsResponse struct {
	Applicants []ApplicantRow `json:"applicants"`
	Stats      ApplicantStats `json:"stats"`
}
