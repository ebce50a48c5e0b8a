// File: internal/domain/chat_message.go
package domain

import (
	"errors"
	"time"
)

// Message sender roles.
const (
	SenderUser  = "user"
	SenderBot   = "bot"
	SenderAdmin = "admin"
)

// ChatMessage is a single utterance within a session. Messages are
// immutable once created except for the read and deleted flags; ordering
// is by creation time ascending with ID as the tiebreak.
type ChatMessage struct {
	ID        string `json:"id" gorm:"type:char(36);primaryKey"`
	SessionID string `json:"session_id" gorm:"type:char(36);not null;index:idx_session_msgs,priority:1"`
	Sender    string `json:"sender" gorm:"not null;size:10;check:sender IN ('user','bot','admin')"`
	Body      string `json:"body" gorm:"type:text;not null"`

	Read      bool `json:"read" gorm:"default:false"`
	IsDeleted bool `json:"-" gorm:"default:false;index"`

	// Set on bot replies produced by a matched intent.
	IntentLabel string `json:"intent_label,omitempty" gorm:"size:64"`
	// Optional widget metadata such as quick-reply suggestions.
	QuickReplies []string `json:"quick_replies,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_session_msgs,priority:2"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

func (m *ChatMessage) IsValid() error {
	if m.SessionID == "" {
		return errors.New("message session ID is required")
	}
	if m.Body == "" {
		return errors.New("message body is required")
	}
	switch m.Sender {
	case SenderUser, SenderBot, SenderAdmin:
		return nil
	default:
		return errors.New("invalid message sender")
	}
}
