package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id           uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID     `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title        string        `gorm:"type:varchar(255);not null;default:'New Study Session'"`
	Subject      string        `gorm:"type:varchar(50);not null;default:'other'"`
	IsActive     bool          `gorm:"not null;default:true;index"`
	MessageCount int           `gorm:"not null;default:0"`
	CreatedAt    time.Time     `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime;index"`
	Messages     []ChatMessage `gorm:"foreignKey:ChatSessionId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
