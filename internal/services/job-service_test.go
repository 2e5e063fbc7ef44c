package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/excel"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
)

type jobFixture struct {
	students *fakeStudentRepo
	jobs     *fakeJobRepo
	apps     *fakeApplicationRepo
	tokens   *fakeTokenRepo
	producer *fakeProducer
	svc      *jobService
	now      time.Time
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	f := &jobFixture{
		students: newFakeStudentRepo(),
		jobs:     newFakeJobRepo(),
		apps:     newFakeApplicationRepo(),
		tokens:   newFakeTokenRepo(),
		producer: &fakeProducer{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewJobService(
		f.jobs, f.students, f.apps, f.tokens,
		excel.NewJobSheetParser(), NewNotifier(f.producer), nil,
		"https://placements.example.com",
	).(*jobService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *jobFixture) addStudent(id uint, email string, complete, eligible bool) {
	student := testStudent()
	student.ID = id
	student.UserID = id + 100
	student.User = domain.User{ID: id + 100, Email: email, Name: email}
	student.Course = domain.Course{ID: 1, Name: "B.Tech"}
	if complete {
		student.ResumeLink = "r"
		student.TenthMarksheet = "t"
		student.TwelfthMarksheet = "tw"
	}
	if !eligible {
		student.CGPA = 2.0
	}
	_ = f.students.Create(&student)
}

func jobCreateRequest(deadline time.Time) dto.JobCreateRequest {
	return dto.JobCreateRequest{
		Title:            "Backend Engineer",
		Description:      "Build services",
		Salary:           900000,
		Vacancy:          3,
		Deadline:         deadline,
		CoursesAllowed:   []string{"B.Tech"},
		MinCGPA:          6.0,
		SemestersAllowed: []int{6, 7, 8},
		BranchesAllowed:  []string{"CSE"},
	}
}

func TestCreateJobNotifiesEligibleStudents(t *testing.T) {
	f := newJobFixture(t)
	f.addStudent(1, "complete@example.com", true, true)
	f.addStudent(2, "incomplete@example.com", false, true)
	f.addStudent(3, "ineligible@example.com", true, false)

	resp, err := f.svc.CreateJob(7, jobCreateRequest(f.now.Add(48*time.Hour)))
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if resp.Job.Status != domain.JobActive {
		t.Fatalf("job status = %q, want active", resp.Job.Status)
	}
	if resp.Notified != 2 {
		t.Fatalf("notified = %d, want 2 (complete + incomplete, never ineligible)", resp.Notified)
	}
	if got := f.producer.countByKey("job-invite"); got != 1 {
		t.Fatalf("job-invite events = %d, want 1", got)
	}
	if got := f.producer.countByKey("profile-incomplete"); got != 1 {
		t.Fatalf("profile-incomplete events = %d, want 1", got)
	}

	// The invite link carries a persisted, unexpired token.
	var invite dto.JobInviteEvent
	for _, e := range f.producer.events {
		if e.key == "job-invite" {
			if err := json.Unmarshal(e.value, &invite); err != nil {
				t.Fatal(err)
			}
		}
	}
	if invite.Email != "complete@example.com" {
		t.Fatalf("invite email = %q", invite.Email)
	}
	if len(f.tokens.tokens) != 1 {
		t.Fatalf("tokens persisted = %d, want 1", len(f.tokens.tokens))
	}
	for _, tok := range f.tokens.tokens {
		if tok.JobID != resp.Job.ID || tok.StudentID != 1 {
			t.Fatalf("token = %+v", tok)
		}
		if !tok.ExpiresAt.Equal(f.now.Add(24 * time.Hour)) {
			t.Fatalf("token expiry = %v, want now+24h", tok.ExpiresAt)
		}
	}
}

func TestCreateJobRejectsPastDeadline(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.CreateJob(7, jobCreateRequest(f.now.Add(-time.Hour)))
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestListJobsFlipsExpired(t *testing.T) {
	f := newJobFixture(t)
	stale := testJob()
	stale.ID = 0
	stale.Deadline = f.now.Add(-time.Hour)
	_ = f.jobs.Create(&stale)
	fresh := testJob()
	fresh.ID = 0
	fresh.Deadline = f.now.Add(time.Hour)
	_ = f.jobs.Create(&fresh)

	jobs, err := f.svc.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	statuses := map[uint]string{}
	for _, j := range jobs {
		statuses[j.ID] = j.Status
	}
	if statuses[stale.ID] != domain.JobInactive {
		t.Fatalf("stale job status = %q, want inactive", statuses[stale.ID])
	}
	if statuses[fresh.ID] != domain.JobActive {
		t.Fatalf("fresh job status = %q, want active", statuses[fresh.ID])
	}
}

func TestValidateJobToken(t *testing.T) {
	f := newJobFixture(t)
	f.addStudent(1, "alice@example.com", true, true)
	job := testJob()
	_ = f.jobs.Create(&job)
	_ = f.tokens.Create(&domain.JobToken{
		Token: "tok", JobID: job.ID, StudentID: 1,
		ExpiresAt: f.now.Add(time.Hour),
	})

	if _, err := f.svc.ValidateJobToken("tok"); err != nil {
		t.Fatalf("ValidateJobToken: %v", err)
	}

	// Spent once the application exists.
	_ = f.apps.Create(&domain.Application{JobID: job.ID, StudentID: 1, RoundStatus: domain.NewRoundStatus()})
	if _, err := f.svc.ValidateJobToken("tok"); !errors.Is(err, apperrors.ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}

	if _, err := f.svc.ValidateJobToken("missing"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestOverrideApplicantStatus(t *testing.T) {
	f := newJobFixture(t)
	job := testJob()
	_ = f.jobs.Create(&job)
	_ = f.apps.Create(&domain.Application{
		JobID: job.ID, StudentID: 1,
		Status: domain.ApplicationPending, RoundStatus: domain.NewRoundStatus(),
	})

	if err := f.svc.OverrideApplicantStatus(job.ID, 1, "accept"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	app, _ := f.apps.FindByJobAndStudent(job.ID, 1)
	if app.Status != domain.ApplicationAccepted {
		t.Fatalf("status = %q, want accepted", app.Status)
	}
	// Round pipeline state is untouched by the override.
	for _, round := range domain.RoundOrder {
		if app.RoundStatus[round] != domain.RoundPending {
			t.Fatalf("round %s = %q, want pending", round, app.RoundStatus[round])
		}
	}

	if err := f.svc.OverrideApplicantStatus(job.ID, 1, "promote"); err == nil {
		t.Fatal("expected validation error for unknown action")
	}
	if err := f.svc.OverrideApplicantStatus(job.ID, 9, "accept"); !errors.Is(err, apperrors.ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
}

func TestRemindNonApplicants(t *testing.T) {
	f := newJobFixture(t)
	f.addStudent(1, "applied@example.com", true, true)
	f.addStudent(2, "forgot@example.com", true, true)
	f.addStudent(3, "ineligible@example.com", true, false)

	job := testJob()
	job.ID = 0
	job.Deadline = f.now.Add(48 * time.Hour)
	_ = f.jobs.Create(&job)
	_ = f.apps.Create(&domain.Application{
		JobID: job.ID, StudentID: 1,
		Status: domain.ApplicationPending, RoundStatus: domain.NewRoundStatus(),
	})

	sent, err := f.svc.RemindNonApplicants(job.ID)
	if err != nil {
		t.Fatalf("RemindNonApplicants: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1 (eligible non-applicant only)", sent)
	}
	if got := f.producer.countByKey("batch-mail"); got != 1 {
		t.Fatalf("batch-mail events = %d, want 1", got)
	}

	var event dto.BatchMailEvent
	for _, e := range f.producer.events {
		if e.key == "batch-mail" {
			if err := json.Unmarshal(e.value, &event); err != nil {
				t.Fatal(err)
			}
		}
	}
	if len(event.Recipients) != 1 || event.Recipients[0] != "forgot@example.com" {
		t.Fatalf("recipients = %v, want the non-applicant only", event.Recipients)
	}

	// A closed job takes no reminders.
	_ = f.jobs.UpdateStatus(job.ID, domain.JobTaken)
	_, err = f.svc.RemindNonApplicants(job.ID)
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestRemindNonApplicantsPastDeadline(t *testing.T) {
	f := newJobFixture(t)
	f.addStudent(1, "forgot@example.com", true, true)

	job := testJob()
	job.ID = 0
	job.Deadline = f.now.Add(-time.Hour)
	_ = f.jobs.Create(&job)

	if _, err := f.svc.RemindNonApplicants(job.ID); !errors.Is(err, apperrors.ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}

func TestGetJobApplicantsStats(t *testing.T) {
	f := newJobFixture(t)
	f.addStudent(1, "alice@example.com", true, true)
	f.addStudent(2, "bob@example.com", true, true)
	job := testJob()
	_ = f.jobs.Create(&job)
	_ = f.apps.Create(&domain.Application{
		JobID: job.ID, StudentID: 1,
		Status: domain.ApplicationPending, RoundStatus: domain.NewRoundStatus(),
	})

	resp, err := f.svc.GetJobApplicants(job.ID)
	if err != nil {
		t.Fatalf("GetJobApplicants: %v", err)
	}
	if resp.Stats.TotalStudents != 2 || resp.Stats.StudentsApplied != 1 || resp.Stats.StudentsNotApplied != 1 {
		t.Fatalf("stats = %+v", resp.Stats)
	}
	for _, row := range resp.Applicants {
		if row.StudentID == 1 && !row.HasApplied {
			t.Fatal("alice should be marked applied")
		}
		if row.StudentID == 2 && row.HasApplied {
			t.Fatal("bob should not be marked applied")
		}
	}
}
