package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
)

type applyFixture struct {
	students *fakeStudentRepo
	jobs     *fakeJobRepo
	apps     *fakeApplicationRepo
	tokens   *fakeTokenRepo
	svc      *applicationService
	now      time.Time
}

func newApplyFixture(t *testing.T) *applyFixture {
	t.Helper()
	f := &applyFixture{
		students: newFakeStudentRepo(),
		jobs:     newFakeJobRepo(),
		apps:     newFakeApplicationRepo(),
		tokens:   newFakeTokenRepo(),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewApplicationService(f.students, f.jobs, f.apps, f.tokens).(*applicationService)
	f.svc.now = func() time.Time { return f.now }

	student := testStudent()
	student.UserID = 10
	student.User = domain.User{ID: 10, Email: "alice@example.com", Name: "Alice"}
	student.Course = domain.Course{ID: 1, Name: "B.Tech"}
	student.ResumeLink = "r"
	student.TenthMarksheet = "t"
	student.TwelfthMarksheet = "tw"
	_ = f.students.Create(&student)

	job := testJob()
	job.Deadline = f.now.Add(48 * time.Hour)
	_ = f.jobs.Create(&job)
	return f
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	f := newApplyFixture(t)

	app, err := f.svc.Apply(10, 1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != domain.ApplicationPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
	for _, round := range domain.RoundOrder {
		if app.RoundStatus[round] != domain.RoundPending {
			t.Fatalf("round %s = %q, want pending", round, app.RoundStatus[round])
		}
	}
}

func TestApplyRejectsIncompleteProfileBeforeAnythingElse(t *testing.T) {
	f := newApplyFixture(t)
	student, _ := f.students.FindByID(1)
	student.ResumeLink = ""
	student.TwelfthMarksheet = ""
	_ = f.students.Save(student)

	// Nonexistent job: the documents gate must fire first regardless.
	_, err := f.svc.Apply(10, 99)
	var profileErr apperrors.IncompleteProfileError
	if !errors.As(err, &profileErr) {
		t.Fatalf("err = %v, want IncompleteProfileError", err)
	}
	want := []string{"Resume", "12th Marksheet"}
	if !reflect.DeepEqual(profileErr.Missing, want) {
		t.Fatalf("missing = %v, want %v", profileErr.Missing, want)
	}
}

func TestApplyUnknownJob(t *testing.T) {
	f := newApplyFixture(t)

	if _, err := f.svc.Apply(10, 99); !errors.Is(err, apperrors.ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestApplyAfterDeadline(t *testing.T) {
	f := newApplyFixture(t)
	f.now = f.now.Add(72 * time.Hour)

	if _, err := f.svc.Apply(10, 1); !errors.Is(err, apperrors.ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}

func TestApplyIneligibleCarriesFailingCriteria(t *testing.T) {
	f := newApplyFixture(t)
	student, _ := f.students.FindByID(1)
	student.CGPA = 4.0
	student.Backlogs = 3
	_ = f.students.Save(student)

	_, err := f.svc.Apply(10, 1)
	var eligErr apperrors.EligibilityError
	if !errors.As(err, &eligErr) {
		t.Fatalf("err = %v, want EligibilityError", err)
	}
	want := []string{"CGPA", "Backlogs"}
	if !reflect.DeepEqual(eligErr.Failing, want) {
		t.Fatalf("failing = %v, want %v", eligErr.Failing, want)
	}
}

func TestApplyTwiceIsDuplicate(t *testing.T) {
	f := newApplyFixture(t)

	if _, err := f.svc.Apply(10, 1); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if _, err := f.svc.Apply(10, 1); !errors.Is(err, apperrors.ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}
}

func TestApplyWithToken(t *testing.T) {
	f := newApplyFixture(t)
	_ = f.tokens.Create(&domain.JobToken{
		Token:     "tok-1",
		JobID:     1,
		StudentID: 1,
		ExpiresAt: f.now.Add(time.Hour),
	})

	app, err := f.svc.ApplyWithToken("tok-1")
	if err != nil {
		t.Fatalf("ApplyWithToken: %v", err)
	}
	if app.JobID != 1 || app.StudentID != 1 {
		t.Fatalf("application = %+v", app)
	}
}

func TestApplyWithTokenExpired(t *testing.T) {
	f := newApplyFixture(t)
	_ = f.tokens.Create(&domain.JobToken{
		Token:     "tok-1",
		JobID:     1,
		StudentID: 1,
		ExpiresAt: f.now.Add(-time.Minute),
	})

	if _, err := f.svc.ApplyWithToken("tok-1"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestApplyWithTokenUnknown(t *testing.T) {
	f := newApplyFixture(t)

	if _, err := f.svc.ApplyWithToken("nope"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestListForStudent(t *testing.T) {
	f := newApplyFixture(t)
	if _, err := f.svc.Apply(10, 1); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	apps, err := f.svc.ListForStudent(10)
	if err != nil {
		t.Fatalf("ListForStudent: %v", err)
	}
	if len(apps) != 1 || apps[0].JobID != 1 {
		t.Fatalf("apps = %+v", apps)
	}
}
