package domain

import "gorm.io/gorm"

const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Phone        *string `json:"phone,omitempty"`
	Role         string  `gorm:"type:varchar(20);not null;default:STUDENT" json:"role"`
	gorm.Model
}
