package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/google/uuid"
	"github.com/placementcell/placement-service/internal/excel"
	"github.com/placementcell/placement-service/internal/interfaces"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"github.com/rs/zerolog/log"
)

const jobTokenTTL = 24 * time.Hour

type JobService interface {
	// CreateJob persists the posting, then scans every student through
	// the shared evaluator: eligible + document-complete students get a
	// single-use apply token by mail, eligible but incomplete profiles
	// get a complete-your-profile nudge instead.
	CreateJob(createdBy uint, req dto.JobCreateRequest) (*dto.JobCreateResponse, error)
	ImportJobsFromExcel(createdBy uint, sheet []byte) (*dto.JobImportResponse, error)
	// ListJobs flips active jobs past their deadline to inactive before
	// reading; the job board read is documented as impure.
	ListJobs() ([]domain.Job, error)
	UpdateJob(id uint, req dto.JobUpdateRequest) (*domain.Job, error)
	DeleteJob(id uint) error
	GetJobApplicants(jobID uint) (*dto.JobApplicantsResponse, error)
	// OverrideApplicantStatus is the admin's direct accept/reject of one
	// application. It never touches roundStatus; the round pipeline owns
	// that.
	OverrideApplicantStatus(jobID, studentID uint, action string) error
	UploadLogo(ctx context.Context, jobID uint, filename string, data []byte) (string, error)
	// RemindNonApplicants mails eligible students who have not applied
	// to an open job yet. Returns the recipient count.
	RemindNonApplicants(jobID uint) (int, error)
	ValidateJobToken(token string) (*domain.JobToken, error)
}

type jobService struct {
	jobs        repository.JobRepository
	students    repository.StudentRepository
	apps        repository.ApplicationRepository
	tokens      repository.JobTokenRepository
	jobSheet    *excel.JobSheetParser
	notifier    *Notifier
	uploader    interfaces.Uploader
	frontendURL string
	now         func() time.Time
}

func NewJobService(
	jobs repository.JobRepository,
	students repository.StudentRepository,
	apps repository.ApplicationRepository,
	tokens repository.JobTokenRepository,
	jobSheet *excel.JobSheetParser,
	notifier *Notifier,
	uploader interfaces.Uploader,
	frontendURL string,
) JobService {
	return &jobService{
		jobs:        jobs,
		students:    students,
		apps:        apps,
		tokens:      tokens,
		jobSheet:    jobSheet,
		notifier:    notifier,
		uploader:    uploader,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func generateJobToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (j *jobService) CreateJob(createdBy uint, req dto.JobCreateRequest) (*dto.JobCreateResponse, error) {
	if req.Deadline.Before(j.now()) {
		return nil, apperrors.ValidationError{
			Field: "deadline", Value: req.Deadline, Message: "deadline is in the past",
		}
	}

	job := req.ToJob(createdBy)
	if err := j.jobs.Create(&job); err != nil {
		return nil, err
	}

	notified := j.notifyEligibleStudents(job)

	return &dto.JobCreateResponse{Job: job, Notified: notified}, nil
}

// notifyEligibleStudents runs the notification-side of the evaluator and
// returns how many eligible students were contacted (with either an
// apply link or a missing-documents nudge).
func (j *jobService) notifyEligibleStudents(job domain.Job) int {
	students, err := j.students.ListAll()
	if err != nil {
		log.Error().Err(err).Uint("job_id", job.ID).
			Msg("failed to load students for eligibility scan")
		return 0
	}

	notified := 0
	for _, student := range students {
		result := EvaluateEligibility(student, student.Course.Name, job)
		if !result.Eligible {
			continue
		}
		if student.User.Email == "" {
			continue
		}

		if missing := student.MissingDocuments(); len(missing) > 0 {
			j.notifier.SendProfileIncomplete(dto.ProfileIncompleteEvent{
				Email:    student.User.Email,
				Name:     student.User.Name,
				JobTitle: job.Title,
				Missing:  missing,
			})
			notified++
			continue
		}

		token, err := generateJobToken()
		if err != nil {
			log.Error().Err(err).Msg("failed to generate job token")
			continue
		}
		err = j.tokens.Create(&domain.JobToken{
			Token:     token,
			JobID:     job.ID,
			StudentID: student.ID,
			ExpiresAt: j.now().Add(jobTokenTTL),
		})
		if err != nil {
			log.Error().Err(err).Uint("student_id", student.ID).
				Msg("failed to persist job token")
			continue
		}

		j.notifier.SendJobInvite(dto.JobInviteEvent{
			Email:     student.User.Email,
			Name:      student.User.Name,
			JobID:     job.ID,
			JobTitle:  job.Title,
			ApplyLink: fmt.Sprintf("%s/applytojob?token=%s", j.frontendURL, token),
		})
		notified++
	}
	return notified
}

func (j *jobService) ImportJobsFromExcel(createdBy uint, sheet []byte) (*dto.JobImportResponse, error) {
	rows, skipped, err := j.jobSheet.Parse(sheet, createdBy)
	if err != nil {
		return nil, apperrors.RosterParseError{Err: err}
	}

	created := 0
	for _, row := range rows {
		job := row.Job
		if err := j.jobs.Create(&job); err != nil {
			log.Warn().Err(err).Int("row", row.RowNum).Msg("skipping job row")
			skipped++
			continue
		}
		created++
		j.notifyEligibleStudents(job)
	}

	return &dto.JobImportResponse{CreatedCount: created, SkippedCount: skipped}, nil
}

func (j *jobService) ListJobs() ([]domain.Job, error) {
	flipped, err := j.jobs.DeactivateExpired(j.now())
	if err != nil {
		return nil, err
	}
	if flipped > 0 {
		log.Info().Int64("count", flipped).Msg("deactivated jobs past deadline")
	}
	return j.jobs.ListAll()
}

func (j *jobService) UpdateJob(id uint, req dto.JobUpdateRequest) (*domain.Job, error) {
	job, err := j.jobs.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Vacancy != nil {
		job.Vacancy = *req.Vacancy
	}
	if req.Deadline != nil {
		job.Deadline = *req.Deadline
	}

	if err := j.jobs.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *jobService) DeleteJob(id uint) error {
	return j.jobs.Delete(id)
}

func (j *jobService) GetJobApplicants(jobID uint) (*dto.JobApplicantsResponse, error) {
	if _, err := j.jobs.FindByID(jobID); err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	apps, err := j.apps.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uint]*domain.Application, len(apps))
	for i := range apps {
		byStudent[apps[i].StudentID] = &apps[i]
	}

	students, err := j.students.ListAll()
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ApplicantRow, 0, len(students))
	applied := 0
	for _, s := range students {
		row := dto.ApplicantRow{
			StudentID: s.ID,
			Name:      s.User.Name,
			Email:     s.User.Email,
			Course:    s.Course.Name,
			CGPA:      s.CGPA,
			Branch:    s.Branch,
			Semester:  s.Semester,
			Backlogs:  s.Backlogs,
			Skills:    s.Skills,
			Resume:    s.ResumeLink,
		}
		if s.User.Phone != nil {
			row.Phone = *s.User.Phone
		}
		if app, ok := byStudent[s.ID]; ok {
			applied++
			row.HasApplied = true
			row.ApplicationStatus = app.Status
			row.SelectedInFinal = app.RoundStatus[domain.RoundFinal] == domain.RoundSelected
		}
		rows = append(rows, row)
	}

	return &dto.JobApplicantsResponse{
		Applicants: rows,
		Stats: dto.ApplicantStats{
			TotalStudents:      len(students),
			StudentsApplied:    applied,
			StudentsNotApplied: len(students) - applied,
		},
	}, nil
}

func (j *jobService) OverrideApplicantStatus(jobID, studentID uint, action string) error {
	if action != "accept" && action != "reject" {
		return apperrors.ValidationError{
			Field: "action", Value: action, Message: "must be accept or reject",
		}
	}

	app, err := j.apps.FindByJobAndStudent(jobID, studentID)
	if err != nil {
		return apperrors.ErrApplicationNotFound
	}

	if action == "accept" {
		app.Status = domain.ApplicationAccepted
	} else {
		app.Status = domain.ApplicationRejected
	}
	return j.apps.Save(app)
}

func (j *jobService) UploadLogo(ctx context.Context, jobID uint, filename string, data []byte) (string, error) {
	job, err := j.jobs.FindByID(jobID)
	if err != nil {
		return "", apperrors.ErrJobNotFound
	}

	publicID := fmt.Sprintf("job-%d-%s", job.ID, uuid.NewString())
	link, err := j.uploader.UploadBytes(ctx, "logos", publicID, data)
	if err != nil {
		return "", err
	}

	job.Logo = link
	if err := j.jobs.Update(job); err != nil {
		return "", err
	}
	return link, nil
}

func (j *jobService) RemindNonApplicants(jobID uint) (int, error) {
	job, err := j.jobs.FindByID(jobID)
	if err != nil {
		return 0, apperrors.ErrJobNotFound
	}
	if job.Status != domain.JobActive {
		return 0, apperrors.ValidationError{
			Field: "status", Value: job.Status, Message: "job is not open for applications",
		}
	}
	if job.DeadlinePassed(j.now()) {
		return 0, apperrors.ErrDeadlinePassed
	}

	apps, err := j.apps.ListByJob(jobID)
	if err != nil {
		return 0, err
	}
	applied := make(map[uint]bool, len(apps))
	for _, app := range apps {
		applied[app.StudentID] = true
	}

	students, err := j.students.ListAll()
	if err != nil {
		return 0, err
	}
	var emails []string
	for _, student := range students {
		if applied[student.ID] || student.User.Email == "" {
			continue
		}
		if !EvaluateEligibility(student, student.Course.Name, *job).Eligible {
			continue
		}
		emails = append(emails, student.User.Email)
	}
	if len(emails) == 0 {
		return 0, nil
	}

	sent := j.notifier.SendBatch(emails, reminderSubject(job.Title), reminderBody(job.Title, job.Deadline))
	if sent == 0 {
		return 0, apperrors.ErrNotificationFailed
	}

	log.Info().Uint("job_id", jobID).Int("reminded", sent).
		Msg("application reminders sent")
	return sent, nil
}

func (j *jobService) ValidateJobToken(token string) (*domain.JobToken, error) {
	t, err := j.tokens.FindByToken(token)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if t.Expired(j.now()) {
		return nil, apperrors.ErrTokenInvalid
	}
	// A token whose application already exists is spent.
	if _, err := j.apps.FindByJobAndStudent(t.JobID, t.StudentID); err == nil {
		return nil, apperrors.ErrDuplicateApplication
	}
	return t, nil
}
