// File: internal/domain/chat_session.go
package domain

import (
	"errors"
	"time"
)

// IdentityKind records which identifier a session was keyed on.
type IdentityKind string

const (
	IdentityUser       IdentityKind = "user"
	IdentityGuest      IdentityKind = "guest"
	IdentityConnection IdentityKind = "connection"
)

// SessionInactivityWindow is how long a session may sit idle before the
// expiry sweep marks it inactive.
const SessionInactivityWindow = 24 * time.Hour

// ChatSession ties a guest/user identity to an ordered message history.
// Identity is immutable after creation and unique across sessions; the
// row is created lazily on the first inbound message, never on connect.
type ChatSession struct {
	ID           string       `json:"id" gorm:"type:char(36);primaryKey"`
	Identity     string       `json:"identity" gorm:"uniqueIndex;not null;size:64"`
	IdentityKind IdentityKind `json:"identity_kind" gorm:"not null;size:16"`

	// Guest contact details, merged shallowly on join (new fields win).
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone" gorm:"size:15"`
	GuestEmail string `json:"guest_email"`

	ConnectionID string `json:"-" gorm:"index;size:64"` // last live connection

	Active         bool       `json:"active" gorm:"default:true;index"`
	LastActivityAt time.Time  `json:"last_activity_at" gorm:"index"`
	Context        string     `json:"context,omitempty"` // arbitrary JSON blob
	Escalated      bool       `json:"escalated" gorm:"default:false"`
	EscalatedAt    *time.Time `json:"escalated_at,omitempty"`
	EndedByUser    bool       `json:"ended_by_user" gorm:"default:false"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`

	// Soft delete is the canonical removal path; rows are only hard-deleted
	// by the explicit admin purge.
	IsDeleted bool `json:"-" gorm:"default:false;index"`

	OriginIP  string `json:"-" gorm:"size:45"`
	UserAgent string `json:"-" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

// MergeGuestDetails overlays newly supplied contact fields onto the
// session. Empty incoming fields leave the stored value untouched.
func (s *ChatSession) MergeGuestDetails(name, phone, email string) bool {
	changed := false
	if name != "" && name != s.GuestName {
		s.GuestName = name
		changed = true
	}
	if phone != "" && phone != s.GuestPhone {
		s.GuestPhone = phone
		changed = true
	}
	if email != "" && email != s.GuestEmail {
		s.GuestEmail = email
		changed = true
	}
	return changed
}

// Expired reports whether the session has been idle past the inactivity window.
func (s *ChatSession) Expired(now time.Time) bool {
	return now.Sub(s.LastActivityAt) > SessionInactivityWindow
}

func (s *ChatSession) IsValid() error {
	if s.Identity == "" {
		return errors.New("session identity is required")
	}
	switch s.IdentityKind {
	case IdentityUser, IdentityGuest, IdentityConnection:
		return nil
	default:
		return errors.New("invalid identity kind")
	}
}
