package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/excel"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/interfaces"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"github.com/placementcell/placement-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

const (
	DocumentResume           = "resume"
	DocumentTenthMarksheet   = "tenth"
	DocumentTwelfthMarksheet = "twelfth"
	DocumentProof            = "proof"
)

type StudentService interface {
	GetProfile(userID uint) (*domain.Student, error)
	UpdateProfile(userID uint, req dto.UpdateStudentProfile) (*domain.Student, error)
	// UploadDocument stores the file and records its link on the profile
	// (except proofs, whose links live on the auth request).
	UploadDocument(ctx context.Context, userID uint, kind, filename string, data []byte) (string, error)
	SaveResumeData(userID uint, data map[string]interface{}) error
	GetResumeData(userID uint) (map[string]interface{}, error)
	// JobBoard splits the open jobs into eligible/ineligible for the
	// student, with failing criteria attached to the ineligible ones.
	// Taken jobs stay visible only to the student placed in them.
	JobBoard(userID uint) (*dto.StudentJobsResponse, error)

	// Admin record management: full listing, per-record edits and
	// sheet-driven bulk onboarding/updates keyed by email.
	ListStudents() ([]domain.Student, error)
	AdminUpdate(studentID uint, req dto.AdminStudentUpdate) (*domain.Student, error)
	ImportFromExcel(sheet []byte) (*dto.StudentImportResponse, error)
	UpdateFromExcel(sheet []byte) (*dto.StudentImportResponse, error)
	BulkDelete(studentIDs []uint) (int64, error)
}

type studentService struct {
	students repository.StudentRepository
	users    repository.UserRepository
	courses  repository.CourseRepository
	jobs     repository.JobRepository
	apps     repository.ApplicationRepository
	sheet    *excel.StudentSheetParser
	uploader interfaces.Uploader
	auth     helper.Auth
	now      func() time.Time
}

func NewStudentService(
	students repository.StudentRepository,
	users repository.UserRepository,
	courses repository.CourseRepository,
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	sheet *excel.StudentSheetParser,
	uploader interfaces.Uploader,
	auth helper.Auth,
) StudentService {
	return &studentService{
		students: students,
		users:    users,
		courses:  courses,
		jobs:     jobs,
		apps:     apps,
		sheet:    sheet,
		uploader: uploader,
		auth:     auth,
		now:      time.Now,
	}
}

func (s *studentService) GetProfile(userID uint) (*domain.Student, error) {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (s *studentService) UpdateProfile(userID uint, req dto.UpdateStudentProfile) (*domain.Student, error) {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	if req.Phone != nil {
		student.User.Phone = req.Phone
		if err := s.users.SaveUser(&student.User); err != nil {
			return nil, err
		}
	}
	if req.Skills != nil {
		student.Skills = req.Skills
		if err := s.students.Save(student); err != nil {
			return nil, err
		}
	}
	return student, nil
}

func (s *studentService) UploadDocument(ctx context.Context, userID uint, kind, filename string, data []byte) (string, error) {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return "", apperrors.ErrStudentNotFound
	}

	var folder, column string
	switch kind {
	case DocumentResume:
		folder, column = "resumes", "resume_link"
	case DocumentTenthMarksheet:
		folder, column = "marksheets", "tenth_marksheet"
	case DocumentTwelfthMarksheet:
		folder, column = "marksheets", "twelfth_marksheet"
	case DocumentProof:
		folder = "proofs"
	default:
		return "", apperrors.ValidationError{
			Field: "kind", Value: kind, Message: "unknown document kind",
		}
	}

	publicID := fmt.Sprintf("%d-%s", student.ID, uuid.NewString())
	link, err := s.uploader.UploadBytes(ctx, folder, publicID, data)
	if err != nil {
		return "", err
	}

	if column != "" {
		if err := s.students.UpdateFields(student.ID, map[string]any{column: link}); err != nil {
			return "", err
		}
	}
	return link, nil
}

func (s *studentService) SaveResumeData(userID uint, data map[string]interface{}) error {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return apperrors.ErrStudentNotFound
	}
	student.ResumeData = data
	return s.students.Save(student)
}

func (s *studentService) GetResumeData(userID uint) (map[string]interface{}, error) {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	if student.ResumeData == nil {
		return map[string]interface{}{}, nil
	}
	return student.ResumeData, nil
}

func (s *studentService) JobBoard(userID uint) (*dto.StudentJobsResponse, error) {
	student, err := s.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	if _, err := s.jobs.DeactivateExpired(s.now()); err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListAll()
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListByStudent(student.ID)
	if err != nil {
		return nil, err
	}
	appliedJobs := make(map[uint]bool, len(apps))
	placedJobs := make(map[uint]bool)
	for _, app := range apps {
		appliedJobs[app.JobID] = true
		if app.Status == domain.ApplicationAccepted {
			placedJobs[app.JobID] = true
		}
	}

	resp := &dto.StudentJobsResponse{Profile: *student}
	for _, job := range jobs {
		// Only open postings are shown. A taken job stays visible to
		// the one student whose application was accepted for it.
		switch job.Status {
		case domain.JobActive:
		case domain.JobTaken:
			if !placedJobs[job.ID] {
				continue
			}
		default:
			continue
		}

		listing := dto.JobListing{Job: job, HasApplied: appliedJobs[job.ID]}
		result := EvaluateEligibility(*student, student.Course.Name, job)
		if result.Eligible {
			resp.EligibleJobs = append(resp.EligibleJobs, listing)
		} else {
			listing.FailingCriteria = result.FailingCriteria()
			resp.IneligibleJobs = append(resp.IneligibleJobs, listing)
		}
	}
	return resp, nil
}

func (s *studentService) ListStudents() ([]domain.Student, error) {
	return s.students.ListAll()
}

func (s *studentService) AdminUpdate(studentID uint, req dto.AdminStudentUpdate) (*domain.Student, error) {
	student, err := s.students.FindByID(studentID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	if req.Name != nil || req.Phone != nil {
		if req.Name != nil {
			student.User.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			student.User.Phone = req.Phone
		}
		if err := s.users.SaveUser(&student.User); err != nil {
			return nil, err
		}
	}

	if req.Branch != nil {
		course, err := s.courses.FindByID(student.CourseID)
		if err != nil {
			return nil, err
		}
		if !utils.ContainsFold(course.Branches, *req.Branch) {
			return nil, apperrors.ValidationError{
				Field: "branch", Value: *req.Branch,
				Message: "not a branch of course " + course.Name,
			}
		}
		student.Branch = strings.TrimSpace(*req.Branch)
	}
	if req.CGPA != nil {
		student.CGPA = *req.CGPA
	}
	if req.TenthPercent != nil {
		student.TenthPercent = *req.TenthPercent
	}
	if req.TwelfthPercent != nil {
		student.TwelfthPercent = *req.TwelfthPercent
	}
	if req.Semester != nil {
		student.Semester = *req.Semester
	}
	if req.Backlogs != nil {
		student.Backlogs = *req.Backlogs
	}
	if req.GapYears != nil {
		student.GapYears = *req.GapYears
	}
	if req.PassingYear != nil {
		student.PassingYear = *req.PassingYear
	}
	if req.Skills != nil {
		student.Skills = req.Skills
	}

	if err := s.students.Save(student); err != nil {
		return nil, err
	}
	return student, nil
}

// ImportFromExcel bulk-onboards students. Rows naming an unknown course,
// a branch the course does not offer, or an email already registered are
// skipped and counted. A blank password column defaults the initial
// password to the row's email.
func (s *studentService) ImportFromExcel(sheet []byte) (*dto.StudentImportResponse, error) {
	rows, skipped, err := s.sheet.Parse(sheet)
	if err != nil {
		return nil, apperrors.RosterParseError{Err: err}
	}

	created := 0
	for _, row := range rows {
		course, err := s.courses.FindByName(row.Course)
		if err != nil {
			log.Warn().Int("row", row.RowNum).Str("course", row.Course).
				Msg("skipping student row: unknown course")
			skipped++
			continue
		}
		if !utils.ContainsFold(course.Branches, row.Branch) {
			log.Warn().Int("row", row.RowNum).Str("branch", row.Branch).
				Msg("skipping student row: branch not offered by course")
			skipped++
			continue
		}
		if existing, err := s.users.FindUserByEmail(row.Email); err == nil && existing != nil && existing.ID != 0 {
			skipped++
			continue
		}

		password := row.Password
		if password == "" {
			password = row.Email
		}
		hashed, err := s.auth.HashPassword(password)
		if err != nil {
			return nil, err
		}

		user := &domain.User{
			Email:        row.Email,
			PasswordHash: hashed,
			Name:         row.Name,
			Role:         domain.RoleStudent,
		}
		if row.Phone != "" {
			phone := row.Phone
			user.Phone = &phone
		}
		usr, err := s.users.CreateUser(user)
		if err != nil {
			log.Warn().Err(err).Int("row", row.RowNum).Msg("skipping student row")
			skipped++
			continue
		}

		err = s.students.Create(&domain.Student{
			UserID:         usr.ID,
			CourseID:       course.ID,
			Branch:         row.Branch,
			CGPA:           row.CGPA,
			TenthPercent:   row.TenthPercent,
			TwelfthPercent: row.TwelfthPercent,
			Semester:       row.Semester,
			Backlogs:       row.Backlogs,
			GapYears:       row.GapYears,
			PassingYear:    row.PassingYear,
		})
		if err != nil {
			log.Warn().Err(err).Int("row", row.RowNum).Msg("skipping student row")
			skipped++
			continue
		}
		created++
	}

	log.Info().Int("created", created).Int("skipped", skipped).
		Msg("student sheet imported")
	return &dto.StudentImportResponse{CreatedCount: created, SkippedCount: skipped}, nil
}

// UpdateFromExcel rewrites existing academic records from the same
// sheet layout, matching rows to students by email. Unmatched emails
// are skipped and counted; names, passwords and documents are left
// alone.
func (s *studentService) UpdateFromExcel(sheet []byte) (*dto.StudentImportResponse, error) {
	rows, skipped, err := s.sheet.Parse(sheet)
	if err != nil {
		return nil, apperrors.RosterParseError{Err: err}
	}

	updated := 0
	for _, row := range rows {
		user, err := s.users.FindUserByEmail(row.Email)
		if err != nil {
			skipped++
			continue
		}
		student, err := s.students.FindByUserID(user.ID)
		if err != nil {
			skipped++
			continue
		}

		course, err := s.courses.FindByName(row.Course)
		if err != nil || !utils.ContainsFold(course.Branches, row.Branch) {
			log.Warn().Int("row", row.RowNum).Str("email", row.Email).
				Msg("skipping student row: course/branch mismatch")
			skipped++
			continue
		}

		student.CourseID = course.ID
		student.Branch = row.Branch
		student.CGPA = row.CGPA
		student.TenthPercent = row.TenthPercent
		student.TwelfthPercent = row.TwelfthPercent
		student.Semester = row.Semester
		student.Backlogs = row.Backlogs
		student.GapYears = row.GapYears
		if row.PassingYear != 0 {
			student.PassingYear = row.PassingYear
		}
		if err := s.students.Save(student); err != nil {
			skipped++
			continue
		}
		updated++
	}

	log.Info().Int("updated", updated).Int("skipped", skipped).
		Msg("student sheet applied")
	return &dto.StudentImportResponse{UpdatedCount: updated, SkippedCount: skipped}, nil
}

func (s *studentService) BulkDelete(studentIDs []uint) (int64, error) {
	return s.students.DeleteByIDs(studentIDs)
}
