package services

import (
	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/pkg/utils"
)

// EligibilityResult is the per-criterion breakdown of one (student, job)
// evaluation. Eligible is true only when every flag holds.
type EligibilityResult struct {
	CGPAOk     bool `json:"cgpa_ok"`
	BacklogOk  bool `json:"backlog_ok"`
	GapOk      bool `json:"gap_ok"`
	TenthOk    bool `json:"tenth_ok"`
	TwelfthOk  bool `json:"twelfth_ok"`
	SemesterOk bool `json:"semester_ok"`
	BranchOk   bool `json:"branch_ok"`
	CourseOk   bool `json:"course_ok"`
	Eligible   bool `json:"eligible"`
}

// FailingCriteria names every criterion the student missed, in a stable
// order, for the apply-denial payload.
func (r EligibilityResult) FailingCriteria() []string {
	var failing []string
	if !r.CGPAOk {
		failing = append(failing, "CGPA")
	}
	if !r.BacklogOk {
		failing = append(failing, "Backlogs")
	}
	if !r.GapOk {
		failing = append(failing, "Gap Years")
	}
	if !r.TenthOk {
		failing = append(failing, "10th Percent")
	}
	if !r.TwelfthOk {
		failing = append(failing, "12th Percent")
	}
	if !r.SemesterOk {
		failing = append(failing, "Semester")
	}
	if !r.BranchOk {
		failing = append(failing, "Branch")
	}
	if !r.CourseOk {
		failing = append(failing, "Course")
	}
	return failing
}

// EvaluateEligibility is the single rule engine shared by the job-creation
// notification filter and the apply-time gate, so the two can never
// disagree about the same snapshot. It is pure: no I/O, no clock, no
// mutation. courseName is the student's course name resolved by the
// caller (students carry a course reference, not the name).
func EvaluateEligibility(student domain.Student, courseName string, job domain.Job) EligibilityResult {
	e := job.Eligibility.WithDefaults()

	r := EligibilityResult{
		CGPAOk:    student.CGPA >= e.MinCGPA,
		BacklogOk: student.Backlogs <= e.MaxBacklogs,
		GapOk:     student.GapYears <= e.AllowedGapYears,
		TenthOk:   student.TenthPercent >= e.MinTenthPercent,
		TwelfthOk: student.TwelfthPercent >= e.MinTwelfthPercent,
		BranchOk:  utils.ContainsFold(e.BranchesAllowed, student.Branch),
		CourseOk:  utils.ContainsFold(job.CoursesAllowed, courseName),
	}

	for _, sem := range e.SemestersAllowed {
		if sem == student.Semester {
			r.SemesterOk = true
			break
		}
	}

	r.Eligible = r.CGPAOk && r.BacklogOk && r.GapOk && r.TenthOk &&
		r.TwelfthOk && r.SemesterOk && r.BranchOk && r.CourseOk
	return r
}
