package repository

import (
	"github.com/placementcell/placement-service/internal/domain"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(student *domain.Student) error
	FindByID(id uint) (*domain.Student, error)
	FindByUserID(userID uint) (*domain.Student, error)
	FindByUserEmails(emails []string) ([]domain.Student, error)
	FindByIDs(ids []uint) ([]domain.Student, error)
	ListAll() ([]domain.Student, error)
	Save(student *domain.Student) error
	UpdateFields(studentID uint, fields map[string]any) error
	DeleteByIDs(ids []uint) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (s *studentRepository) Create(student *domain.Student) error {
	return s.db.Create(student).Error
}

func (s *studentRepository) FindByID(id uint) (*domain.Student, error) {
	var student domain.Student
	if err := s.db.Preload("User").Preload("Course").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *studentRepository) FindByUserID(userID uint) (*domain.Student, error) {
	var student domain.Student
	err := s.db.Preload("User").Preload("Course").
		Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserEmails resolves roster emails to student profiles via the
// users table. Unknown emails are silently dropped.
func (s *studentRepository) FindByUserEmails(emails []string) ([]domain.Student, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var students []domain.Student
	err := s.db.Preload("User").
		Joins("JOIN users ON users.id = students.user_id").
		Where("LOWER(users.email) IN ?", emails).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (s *studentRepository) FindByIDs(ids []uint) ([]domain.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []domain.Student
	if err := s.db.Preload("User").Find(&students, ids).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *studentRepository) ListAll() ([]domain.Student, error) {
	var students []domain.Student
	if err := s.db.Preload("User").Preload("Course").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *studentRepository) Save(student *domain.Student) error {
	return s.db.Save(student).Error
}

func (s *studentRepository) UpdateFields(studentID uint, fields map[string]any) error {
	return s.db.Model(&domain.Student{}).
		Where("id = ?", studentID).
		Updates(fields).Error
}

func (s *studentRepository) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.Delete(&domain.Student{}, ids)
	return res.RowsAffected, res.Error
}
