package services

import (
	"strings"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
)

type CourseService interface {
	CreateCourse(name string, branches []string) (*domain.Course, error)
	ListCourses() ([]domain.Course, error)
}

type courseService struct {
	courses repository.CourseRepository
}

func NewCourseService(courses repository.CourseRepository) CourseService {
	return &courseService{courses: courses}
}

func (c *courseService) CreateCourse(name string, branches []string) (*domain.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ValidationError{
			Field: "name", Value: name, Message: "course name is required",
		}
	}
	cleaned := make([]string, 0, len(branches))
	for _, b := range branches {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.ValidationError{
			Field: "branches", Value: branches, Message: "at least one branch is required",
		}
	}

	course := &domain.Course{Name: name, Branches: cleaned}
	if err := c.courses.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (c *courseService) ListCourses() ([]domain.Course, error) {
	return c.courses.ListAll()
}
