package repository

import (
	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *domain.Course) error
	FindByName(name string) (*domain.Course, error)
	FindByID(id uint) (*domain.Course, error)
	ListAll() ([]domain.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (c *courseRepository) Create(course *domain.Course) error {
	return c.db.Create(course).Error
}

func (c *courseRepository) FindByName(name string) (*domain.Course, error) {
	var course domain.Course
	if err := c.db.Where("LOWER(name) = LOWER(?)", name).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *courseRepository) FindByID(id uint) (*domain.Course, error) {
	var course domain.Course
	if err := c.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *courseRepository) ListAll() ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.db.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
