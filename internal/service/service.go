package service

import (
	"context"
	"time"

	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/events"

	"github.com/google/uuid"
)

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(raw string) (uuid.UUID, error)
}

const publishTimeout = 2 * time.Second

// publishEvent delivers evt synchronously; failures are logged, never returned.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, evt events.Event) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, evt); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
