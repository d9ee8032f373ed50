package model

import (
	"time"

	"github.com/google/uuid"
)

type Ward struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Number int       `gorm:"not null" json:"number"`
	Name   string    `gorm:"type:varchar(255);not null" json:"name"`
}

func (Ward) TableName() string {
	return "wards"
}

type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`
}

func (Department) TableName() string {
	return "departments"
}

type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	SLAHours int       `gorm:"column:sla_hours" json:"sla_hours"`
}

func (Category) TableName() string {
	return "categories"
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         UserRole   `gorm:"type:varchar(32);not null" json:"role"`
	WardID       *uuid.UUID `gorm:"type:uuid" json:"ward_id"`
	DepartmentID *uuid.UUID `gorm:"type:uuid" json:"department_id"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
