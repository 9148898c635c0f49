package specification

import (
	"studybuddy-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

type ActiveSessions struct{}

func (s ActiveSessions) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// RecentlyUpdated lists sessions most recently touched first.
type RecentlyUpdated struct{}

func (s RecentlyUpdated) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByUpdatedDesc)
}

// MessageOrder sorts by creation time with insertion order breaking ties.
type MessageOrder struct {
	NewestFirst bool
}

func (s MessageOrder) Apply(db *gorm.DB) *gorm.DB {
	if s.NewestFirst {
		return db.Scopes(scope.ReverseChronological)
	}
	return db.Scopes(scope.Chronological)
}
