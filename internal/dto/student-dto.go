package dto

import "github.com/placementcell/placement-service/internal/domain"

type UpdateStudentProfile struct {
	Phone  *string  `json:"phone,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// AdminStudentUpdate is the admin-side record edit. Only present fields
// are written; numeric bounds match registration.
type AdminStudentUpdate struct {
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Branch         *string  `json:"branch,omitempty"`
	CGPA           *float64 `json:"cgpa,omitempty" validate:"omitempty,gte=0,lte=10"`
	TenthPercent   *float64 `json:"tenth_percent,omitempty" validate:"omitempty,gte=30,lte=100"`
	TwelfthPercent *float64 `json:"twelfth_percent,omitempty" validate:"omitempty,gte=30,lte=100"`
	Semester       *int     `json:"semester,omitempty" validate:"omitempty,gte=1,lte=10"`
	Backlogs       *int     `json:"backlogs,omitempty" validate:"omitempty,gte=0"`
	GapYears       *int     `json:"gap_years,omitempty" validate:"omitempty,gte=0"`
	PassingYear    *int     `json:"passing_year,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

type StudentImportResponse struct {
	CreatedCount int `json:"created_count"`
	UpdatedCount int `json:"updated_count"`
	SkippedCount int `json:"skipped_count"`
}

// StudentJobsResponse splits the job board into jobs the student can
// apply to and jobs they fail at least one criterion for.
type StudentJobsResponse struct {
	Profile        domain.Student `json:"profile"`
	EligibleJobs   []JobListing   `json:"eligible_jobs"`
	IneligibleJobs []JobListing   `json:"ineligible_jobs"`
}

type JobListing struct {
	Job             domain.Job `json:"job"`
	FailingCriteria []string   `json:"failing_criteria,omitempty"`
	HasApplied      bool       `json:"has_applied"`
}
