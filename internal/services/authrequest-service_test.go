package services

import (
	"errors"
	"testing"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
)

type authReqFixture struct {
	requests *fakeAuthRequestRepo
	students *fakeStudentRepo
	courses  *fakeCourseRepo
	svc      *authRequestService
	now      time.Time
}

func newAuthReqFixture(t *testing.T) *authReqFixture {
	t.Helper()
	f := &authReqFixture{
		requests: newFakeAuthRequestRepo(),
		students: newFakeStudentRepo(),
		courses:  newFakeCourseRepo(),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthRequestService(f.requests, f.students, f.courses).(*authRequestService)
	f.svc.now = func() time.Time { return f.now }

	course := domain.Course{ID: 1, Name: "B.Tech", Branches: []string{"CSE", "IT"}}
	_ = f.courses.Create(&course)

	student := testStudent()
	student.UserID = 10
	student.CourseID = 1
	student.Course = course
	_ = f.students.Create(&student)
	return f
}

func TestSubmitCapturesOldValue(t *testing.T) {
	f := newAuthReqFixture(t)

	req, err := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "cgpa", NewValue: "8.10"}, "proof-link")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.OldValue != "7.50" {
		t.Fatalf("old value = %q, want 7.50", req.OldValue)
	}
	if req.Status != domain.AuthRequestPending {
		t.Fatalf("status = %q, want pending", req.Status)
	}
	if req.Proof != "proof-link" {
		t.Fatalf("proof = %q", req.Proof)
	}
}

func TestSubmitRejectsUnknownField(t *testing.T) {
	f := newAuthReqFixture(t)

	_, err := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "email", NewValue: "x"}, "")
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestApproveCoercesNumericFields(t *testing.T) {
	f := newAuthReqFixture(t)

	req, err := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "cgpa", NewValue: "8.25"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Approve(req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	student, _ := f.students.FindByID(1)
	if student.CGPA != 8.25 {
		t.Fatalf("cgpa = %v, want 8.25", student.CGPA)
	}
	stored, _ := f.requests.FindByID(req.ID)
	if stored.Status != domain.AuthRequestApproved {
		t.Fatalf("status = %q, want approved", stored.Status)
	}
}

func TestApproveSemesterAsInteger(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "semester", NewValue: "7"}, "")
	if err := f.svc.Approve(req.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	student, _ := f.students.FindByID(1)
	if student.Semester != 7 {
		t.Fatalf("semester = %d, want 7", student.Semester)
	}
}

func TestApproveBranchValidatedAgainstCourse(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "branch", NewValue: "Mechanical"}, "")
	err := f.svc.Approve(req.ID)
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	req2, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "branch", NewValue: "IT"}, "")
	if err := f.svc.Approve(req2.ID); err != nil {
		t.Fatalf("Approve IT: %v", err)
	}
	student, _ := f.students.FindByID(1)
	if student.Branch != "IT" {
		t.Fatalf("branch = %q, want IT", student.Branch)
	}
}

func TestApproveNonNumericValueFails(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "backlogs", NewValue: "none"}, "")
	err := f.svc.Approve(req.ID)
	var vErr apperrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	// Student untouched on a failed coercion.
	student, _ := f.students.FindByID(1)
	if student.Backlogs != 0 {
		t.Fatalf("backlogs = %d, want 0", student.Backlogs)
	}
}

func TestApproveRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct{ field, value string }{
		{"cgpa", "99"},
		{"cgpa", "-1"},
		{"tenthPercent", "20"},
		{"twelfthPercent", "101"},
		{"semester", "11"},
		{"semester", "0"},
		{"backlogs", "-2"},
	}
	for _, tc := range cases {
		f := newAuthReqFixture(t)

		req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: tc.field, NewValue: tc.value}, "")
		err := f.svc.Approve(req.ID)
		var vErr apperrors.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s=%s: err = %v, want ValidationError", tc.field, tc.value, err)
		}

		// The profile keeps its original values on a refused approval.
		student, _ := f.students.FindByID(1)
		if student.CGPA != 7.5 || student.TenthPercent != 80 ||
			student.TwelfthPercent != 75 || student.Semester != 6 || student.Backlogs != 0 {
			t.Fatalf("%s=%s: student modified: %+v", tc.field, tc.value, student)
		}
		stored, _ := f.requests.FindByID(req.ID)
		if stored.Status != domain.AuthRequestPending {
			t.Fatalf("%s=%s: status = %q, want pending", tc.field, tc.value, stored.Status)
		}
	}
}

func TestApproveRequiresPendingStatus(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "cgpa", NewValue: "8.0"}, "")
	if err := f.svc.Approve(req.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Approve(req.ID); !errors.Is(err, apperrors.ErrRequestNotPending) {
		t.Fatalf("err = %v, want ErrRequestNotPending", err)
	}
}

func TestRejectRecordsFeedback(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "cgpa", NewValue: "9.9"}, "")
	if err := f.svc.Reject(req.ID, "proof unreadable"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	stored, _ := f.requests.FindByID(req.ID)
	if stored.Status != domain.AuthRequestRejected || stored.Remarks != "proof unreadable" {
		t.Fatalf("stored = %+v", stored)
	}
	// Rejection never writes the profile.
	student, _ := f.students.FindByID(1)
	if student.CGPA != 7.5 {
		t.Fatalf("cgpa = %v, want unchanged 7.5", student.CGPA)
	}
}

func TestPurgeExpiredDropsOnlyOldRequests(t *testing.T) {
	f := newAuthReqFixture(t)

	old := &domain.AuthRequest{StudentID: 1, Field: "cgpa", NewValue: "8"}
	old.CreatedAt = f.now.Add(-4 * 24 * time.Hour)
	_ = f.requests.Create(old)

	recent := &domain.AuthRequest{StudentID: 1, Field: "semester", NewValue: "7"}
	recent.CreatedAt = f.now.Add(-2 * 24 * time.Hour)
	_ = f.requests.Create(recent)

	deleted, err := f.svc.PurgeExpired()
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := f.requests.FindByID(old.ID); err == nil {
		t.Fatal("old request survived the purge")
	}
	if _, err := f.requests.FindByID(recent.ID); err != nil {
		t.Fatal("recent request was purged")
	}
}

func TestPurgeRemovesApprovedAndRejectedAlike(t *testing.T) {
	f := newAuthReqFixture(t)

	req, _ := f.svc.Submit(10, dto.AuthRequestSubmit{Field: "cgpa", NewValue: "8.0"}, "")
	if err := f.svc.Approve(req.ID); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.requests.FindByID(req.ID)
	stored.CreatedAt = f.now.Add(-5 * 24 * time.Hour)
	_ = f.requests.Save(stored)

	deleted, err := f.svc.PurgeExpired()
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
}
