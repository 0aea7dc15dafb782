package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"type:varchar(120);not null"`
	Email      string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_employee_email"`
	Mobile     string    `gorm:"type:varchar(20);not null"`
	Department string    `gorm:"type:varchar(60);not null"`
	Role       string    `gorm:"type:varchar(15);not null;default:'employee'"`

	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
