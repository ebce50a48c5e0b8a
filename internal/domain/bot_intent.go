// File: internal/domain/bot_intent.go
package domain

import (
	"errors"
	"time"
)

// BotIntent is an admin-configured keywords -> response rule consulted to
// auto-answer inbound chat messages. Intents are mutable admin data and
// are reloaded by the matcher on every call.
type BotIntent struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	Label        string     `json:"label" gorm:"uniqueIndex;not null;size:64"`
	Keywords     []string   `json:"keywords" gorm:"serializer:json;not null"`
	Response     string     `json:"response" gorm:"type:text;not null"`
	QuickReplies []string   `json:"quick_replies,omitempty" gorm:"serializer:json"`
	Active       bool       `json:"active" gorm:"default:true;index"`
	Priority     int        `json:"priority" gorm:"default:0;index"`
	MatchCount   int64      `json:"match_count" gorm:"default:0"`
	LastMatched  *time.Time `json:"last_matched,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (BotIntent) TableName() string { return "bot_intents" }

func (i *BotIntent) IsValid() error {
	if i.Label == "" {
		return errors.New("intent label is required")
	}
	if len(i.Keywords) == 0 {
		return errors.New("intent needs at least one keyword")
	}
	if i.Response == "" {
		return errors.New("intent response is required")
	}
	return nil
}

// QuickAction is an admin-configured shortcut button surfaced to the chat
// widget. Plain CRUD entity.
type QuickAction struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Label        string    `json:"label" gorm:"not null;size:64"`
	Payload      string    `json:"payload" gorm:"not null"` // text sent when tapped
	Icon         string    `json:"icon,omitempty" gorm:"size:64"`
	DisplayOrder int       `json:"display_order" gorm:"default:0;index"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (QuickAction) TableName() string { return "quick_actions" }
