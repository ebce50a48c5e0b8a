// File: internal/repository/session/interface.go
package session

import (
	"context"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
)

// SessionRepository persists chat sessions. Identity is unique across
// rows; creation goes through GetOrCreate so two racing first messages
// for the same identity resolve to a single session.
type SessionRepository interface {
	// GetOrCreate atomically finds the session for candidate.Identity or
	// inserts candidate. The bool result reports whether a row was created.
	// A soft-deleted row for the identity is revived rather than duplicated.
	GetOrCreate(ctx context.Context, candidate *domain.ChatSession) (*domain.ChatSession, bool, error)

	// FindByIdentity returns the non-deleted session for an identity.
	FindByIdentity(ctx context.Context, identity string) (*domain.ChatSession, error)

	// FindByConnectionID returns the non-deleted session last bound to a
	// live connection id.
	FindByConnectionID(ctx context.Context, connectionID string) (*domain.ChatSession, error)

	// FindByID returns the session regardless of its deleted flag, so
	// admin reads of a soft-deleted session's history keep working.
	FindByID(ctx context.Context, id string) (*domain.ChatSession, error)

	Save(ctx context.Context, session *domain.ChatSession) error

	// TouchActivity stamps last-activity and marks the session active.
	TouchActivity(ctx context.Context, id string, at time.Time) error

	// End marks the session inactive with the ended-by-user flag.
	End(ctx context.Context, id string, at time.Time) error

	// SoftDelete hides the session and marks it inactive.
	SoftDelete(ctx context.Context, id string) error

	// HardDelete removes the row. Only the admin purge path calls this.
	HardDelete(ctx context.Context, id string) error

	// List returns sessions ordered by last activity descending.
	// Soft-deleted rows are excluded unless includeDeleted is set.
	List(ctx context.Context, includeDeleted bool, limit, offset int) ([]domain.ChatSession, int64, error)

	// ExpireIdle marks active sessions idle since before cutoff inactive,
	// returning how many were expired.
	ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
