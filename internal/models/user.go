package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	FullName     string    `json:"full_name" gorm:"size:100"`
	Role         UserRole  `json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
