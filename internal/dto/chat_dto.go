package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title   Optional[string] `json:"title" validate:"omitempty,max=255"`
	Subject Optional[string] `json:"subject" validate:"omitempty,subject"`
}

type UpdateSessionRequest struct {
	Title    Optional[string] `json:"title" validate:"omitempty,max=255"`
	Subject  Optional[string] `json:"subject" validate:"omitempty,subject"`
	IsActive Optional[bool]   `json:"is_active"`
}

type ListSessionsQuery struct {
	Skip       int  `query:"skip" validate:"gte=0"`
	Limit      int  `query:"limit" validate:"gte=1,lte=100"`
	ActiveOnly bool `query:"active_only"`
}

type PageQuery struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

type SessionResponse struct {
	Id           uuid.UUID  `json:"id"`
	UserId       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	IsActive     bool       `json:"is_active"`
	MessageCount int        `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type SendMessageRequest struct {
	Content   string     `json:"content" validate:"required,min=1,max=5000"`
	SessionId *uuid.UUID `json:"session_id"`
	Subject   *string    `json:"subject" validate:"omitempty,subject"`
}

type MessageResponse struct {
	Id           uuid.UUID `json:"id"`
	SessionId    uuid.UUID `json:"session_id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	TokensUsed   *int      `json:"tokens_used"`
	ModelUsed    *string   `json:"model_used"`
	ResponseTime *int      `json:"response_time"`
	CreatedAt    time.Time `json:"created_at"`
}

type ChatResponse struct {
	SessionId        uuid.UUID        `json:"session_id"`
	SessionTitle     string           `json:"session_title"`
	UserMessage      *MessageResponse `json:"user_message"`
	AssistantMessage *MessageResponse `json:"assistant_message"`
}
