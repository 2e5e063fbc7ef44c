package services

import (
	"errors"
	"strings"

	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/helper"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"github.com/placementcell/placement-service/pkg/utils"
)

type UserService interface {
	Register(input dto.RegisterRequest) error
	Login(email, password string) (*domain.User, string, error)
	IsAdmin(userID uint) (bool, error)
}

type userService struct {
	users    repository.UserRepository
	students repository.StudentRepository
	courses  repository.CourseRepository
	auth     helper.Auth
}

func NewUserService(
	users repository.UserRepository,
	students repository.StudentRepository,
	courses repository.CourseRepository,
	auth helper.Auth,
) UserService {
	return &userService{
		users:    users,
		students: students,
		courses:  courses,
		auth:     auth,
	}
}

func (u *userService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || strings.TrimSpace(input.Password) == "" || name == "" {
		return errors.New("invalid inputs")
	}

	course, err := u.courses.FindByName(strings.TrimSpace(input.Course))
	if err != nil {
		return errors.New("unknown course")
	}
	// The student's branch must be one the course actually offers.
	if !utils.ContainsFold(course.Branches, input.Branch) {
		return apperrors.ValidationError{
			Field: "branch", Value: input.Branch,
			Message: "not a branch of course " + course.Name,
		}
	}

	if existing, err := u.users.FindUserByEmail(email); err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already exists")
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Role:         domain.RoleStudent,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}
	usr, err := u.users.CreateUser(user)
	if err != nil {
		return err
	}

	student := &domain.Student{
		UserID:         usr.ID,
		CourseID:       course.ID,
		Branch:         strings.TrimSpace(input.Branch),
		CGPA:           input.CGPA,
		TenthPercent:   input.TenthPercent,
		TwelfthPercent: input.TwelfthPercent,
		Semester:       input.Semester,
		Backlogs:       input.Backlogs,
		GapYears:       input.GapYears,
		PassingYear:    input.PassingYear,
	}
	return u.students.Create(student)
}

func (u *userService) Login(email, password string) (*domain.User, string, error) {
	user, err := u.users.FindUserByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", errors.New("invalid email or password")
	}
	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	}

	token, err := u.auth.GenerateToken(int(user.ID), user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *userService) IsAdmin(userID uint) (bool, error) {
	user, err := u.users.FindUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.Role == domain.RoleAdmin, nil
}
