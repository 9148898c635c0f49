package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	Id        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  *string    `json:"full_name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// UpdateProfileRequest applies only the fields present in the body.
type UpdateProfileRequest struct {
	Email    Optional[string] `json:"email" validate:"omitempty,email,max=255"`
	Username Optional[string] `json:"username" validate:"omitempty,min=3,max=100"`
	FullName Optional[string] `json:"full_name" validate:"omitempty,max=255"`
	Password Optional[string] `json:"password" validate:"omitempty,min=8,max=100"`
}
