package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string        `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	FullName     *string       `gorm:"type:varchar(255)"`
	Role         string        `gorm:"type:varchar(20);not null;default:'student'"`
	IsActive     bool          `gorm:"not null;default:true"`
	CreatedAt    time.Time     `gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime"`
	LastLogin    *time.Time
	Sessions     []ChatSession `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
