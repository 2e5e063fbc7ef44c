package services

import (
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
)

type ApplicationService interface {
	// Apply runs the full gate chain for the logged-in student:
	// documents -> job -> deadline -> eligibility -> uniqueness.
	Apply(userID, jobID uint) (*domain.Application, error)
	// ApplyWithToken is the mailed-link entry point; it resolves the
	// single-use token and then runs the same gates as Apply.
	ApplyWithToken(token string) (*domain.Application, error)
	ListForStudent(userID uint) ([]domain.Application, error)
}

type applicationService struct {
	students repository.StudentRepository
	jobs     repository.JobRepository
	apps     repository.ApplicationRepository
	tokens   repository.JobTokenRepository
	now      func() time.Time
}

func NewApplicationService(
	students repository.StudentRepository,
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	tokens repository.JobTokenRepository,
) ApplicationService {
	return &applicationService{
		students: students,
		jobs:     jobs,
		apps:     apps,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (a *applicationService) Apply(userID, jobID uint) (*domain.Application, error) {
	student, err := a.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return a.apply(student, jobID)
}

func (a *applicationService) ApplyWithToken(token string) (*domain.Application, error) {
	t, err := a.tokens.FindByToken(token)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if t.Expired(a.now()) {
		return nil, apperrors.ErrTokenInvalid
	}

	student, err := a.students.FindByID(t.StudentID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return a.apply(student, t.JobID)
}

func (a *applicationService) apply(student *domain.Student, jobID uint) (*domain.Application, error) {
	// Documents first: an incomplete profile must not read as an
	// eligibility failure, the client routes the two differently.
	if missing := student.MissingDocuments(); len(missing) > 0 {
		return nil, apperrors.IncompleteProfileError{Missing: missing}
	}

	job, err := a.jobs.FindByID(jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.DeadlinePassed(a.now()) {
		return nil, apperrors.ErrDeadlinePassed
	}

	result := EvaluateEligibility(*student, student.Course.Name, *job)
	if !result.Eligible {
		return nil, apperrors.EligibilityError{Failing: result.FailingCriteria()}
	}

	app := &domain.Application{
		JobID:       job.ID,
		StudentID:   student.ID,
		Status:      domain.ApplicationPending,
		RoundStatus: domain.NewRoundStatus(),
	}
	// The composite unique index makes the duplicate check race-free;
	// the repository maps the violation to ErrDuplicateApplication.
	if err := a.apps.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *applicationService) ListForStudent(userID uint) ([]domain.Application, error) {
	student, err := a.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return a.apps.ListByStudent(student.ID)
}
