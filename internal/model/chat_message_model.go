package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq            int64     `gorm:"autoIncrement;not null;uniqueIndex"` // insertion order, breaks created_at ties
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	TokensUsed     *int
	ModelUsed      *string   `gorm:"type:varchar(50)"`
	ResponseTimeMs *int      `gorm:"column:response_time_ms"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
