package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Seq           int64
	Role          MessageRole
	Content       string

	// Generation metadata, assistant messages only
	TokensUsed     *int
	ModelUsed      *string
	ResponseTimeMs *int

	CreatedAt time.Time
}
