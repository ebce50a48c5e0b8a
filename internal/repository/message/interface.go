// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/bookmyseva/backend/internal/domain"
)

// MessageRepository persists chat messages. Messages are immutable after
// creation except for the read and deleted flags.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)

	// FindBySessionID returns messages ordered by creation time ascending.
	// Soft-deleted messages are excluded unless includeDeleted is set.
	FindBySessionID(ctx context.Context, sessionID string, includeDeleted bool) ([]domain.ChatMessage, error)

	// SoftDelete hides a message. The sessionID guards against deleting a
	// message through the wrong session.
	SoftDelete(ctx context.Context, messageID, sessionID string) error

	// MarkRead flips the read flag on all messages a given sender wrote
	// in the session.
	MarkRead(ctx context.Context, sessionID, sender string) error

	CountBySessionID(ctx context.Context, sessionID string) (int64, error)

	// HardDeleteBySessionID removes all messages of a session. Only the
	// admin purge path calls this.
	HardDeleteBySessionID(ctx context.Context, sessionID string) (int64, error)
}
