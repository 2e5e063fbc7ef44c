package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"github.com/placementcell/placement-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

// authRequestTTL is how long a correction request lives before the daily
// sweep removes it, approved or not.
const authRequestTTL = 3 * 24 * time.Hour

type AuthRequestService interface {
	Submit(userID uint, req dto.AuthRequestSubmit, proofLink string) (*domain.AuthRequest, error)
	ListAll() ([]domain.AuthRequest, error)
	// Approve overwrites the student's field with the requested value,
	// numerically coerced unless the field is textual.
	Approve(id uint) error
	Reject(id uint, feedback string) error
	Delete(id uint) error
	// PurgeExpired deletes requests older than the TTL. Idempotent and
	// safe to run concurrently with request traffic.
	PurgeExpired() (int64, error)
}

type authRequestService struct {
	requests repository.AuthRequestRepository
	students repository.StudentRepository
	courses  repository.CourseRepository
	now      func() time.Time
}

func NewAuthRequestService(
	requests repository.AuthRequestRepository,
	students repository.StudentRepository,
	courses repository.CourseRepository,
) AuthRequestService {
	return &authRequestService{
		requests: requests,
		students: students,
		courses:  courses,
		now:      time.Now,
	}
}

func (a *authRequestService) Submit(userID uint, req dto.AuthRequestSubmit, proofLink string) (*domain.AuthRequest, error) {
	student, err := a.students.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	if !domain.IsCorrectableField(req.Field) {
		return nil, apperrors.ValidationError{
			Field: "field", Value: req.Field, Message: "not a correctable field",
		}
	}

	request := &domain.AuthRequest{
		StudentID: student.ID,
		Field:     req.Field,
		OldValue:  currentFieldValue(*student, req.Field),
		NewValue:  req.NewValue,
		Proof:     proofLink,
		Status:    domain.AuthRequestPending,
	}
	if err := a.requests.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (a *authRequestService) ListAll() ([]domain.AuthRequest, error) {
	return a.requests.ListAll()
}

func (a *authRequestService) Approve(id uint) error {
	request, err := a.requests.FindByID(id)
	if err != nil {
		return apperrors.ErrRequestNotFound
	}
	if request.Status != domain.AuthRequestPending {
		return apperrors.ErrRequestNotPending
	}

	student, err := a.students.FindByID(request.StudentID)
	if err != nil {
		return apperrors.ErrStudentNotFound
	}

	fields, err := fieldUpdate(*student, request.Field, request.NewValue)
	if err != nil {
		return err
	}
	if err := a.students.UpdateFields(student.ID, fields); err != nil {
		return err
	}

	request.Status = domain.AuthRequestApproved
	return a.requests.Save(request)
}

func (a *authRequestService) Reject(id uint, feedback string) error {
	request, err := a.requests.FindByID(id)
	if err != nil {
		return apperrors.ErrRequestNotFound
	}
	request.Status = domain.AuthRequestRejected
	request.Remarks = feedback
	return a.requests.Save(request)
}

func (a *authRequestService) Delete(id uint) error {
	return a.requests.Delete(id)
}

func (a *authRequestService) PurgeExpired() (int64, error) {
	cutoff := a.now().Add(-authRequestTTL)
	deleted, err := a.requests.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Info().Int64("count", deleted).Msg("purged expired auth requests")
	}
	return deleted, nil
}

func currentFieldValue(student domain.Student, field string) string {
	switch field {
	case "cgpa":
		return strconv.FormatFloat(student.CGPA, 'f', 2, 64)
	case "semester":
		return strconv.Itoa(student.Semester)
	case "branch":
		return student.Branch
	case "tenthPercent":
		return strconv.FormatFloat(student.TenthPercent, 'f', 2, 64)
	case "twelfthPercent":
		return strconv.FormatFloat(student.TwelfthPercent, 'f', 2, 64)
	case "backlogs":
		return strconv.Itoa(student.Backlogs)
	}
	return ""
}

// fieldUpdate coerces the requested value to the field's column type.
// Branch stays textual and must belong to the student's course; numeric
// values must stay inside the ranges registration enforces, so an
// approval can never write a profile registration would have refused.
func fieldUpdate(student domain.Student, field, newValue string) (map[string]any, error) {
	switch field {
	case "branch":
		if !utils.ContainsFold(student.Course.Branches, newValue) {
			return nil, apperrors.ValidationError{
				Field: "branch", Value: newValue,
				Message: fmt.Sprintf("not a branch of course %s", student.Course.Name),
			}
		}
		return map[string]any{"branch": newValue}, nil
	case "cgpa", "tenthPercent", "twelfthPercent":
		v, err := strconv.ParseFloat(newValue, 64)
		if err != nil {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue, Message: "must be a number",
			}
		}
		bounds := map[string]struct{ min, max float64 }{
			"cgpa":           {0, 10},
			"tenthPercent":   {30, 100},
			"twelfthPercent": {30, 100},
		}[field]
		if v < bounds.min || v > bounds.max {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue,
				Message: fmt.Sprintf("must be between %g and %g", bounds.min, bounds.max),
			}
		}
		columns := map[string]string{
			"cgpa":           "cgpa",
			"tenthPercent":   "tenth_percent",
			"twelfthPercent": "twelfth_percent",
		}
		return map[string]any{columns[field]: v}, nil
	case "semester":
		v, err := strconv.Atoi(newValue)
		if err != nil {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue, Message: "must be an integer",
			}
		}
		if v < 1 || v > 10 {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue, Message: "must be between 1 and 10",
			}
		}
		return map[string]any{"semester": v}, nil
	case "backlogs":
		v, err := strconv.Atoi(newValue)
		if err != nil {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue, Message: "must be an integer",
			}
		}
		if v < 0 {
			return nil, apperrors.ValidationError{
				Field: field, Value: newValue, Message: "must not be negative",
			}
		}
		return map[string]any{"backlogs": v}, nil
	}
	return nil, apperrors.ValidationError{
		Field: "field", Value: field, Message: "not a correctable field",
	}
}
