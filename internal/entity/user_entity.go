package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleAdmin   UserRole = "admin"
)

type User struct {
	Id           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FullName     *string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LastLogin    *time.Time
}
