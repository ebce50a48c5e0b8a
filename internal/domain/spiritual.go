// File: internal/domain/spiritual.go
package domain

import (
	"errors"
	"time"
)

// GitaVerse is a single verse of the Bhagavad Gita with translation.
type GitaVerse struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	Chapter         int       `json:"chapter" gorm:"not null;uniqueIndex:idx_chapter_verse,priority:1"`
	Verse           int       `json:"verse" gorm:"not null;uniqueIndex:idx_chapter_verse,priority:2"`
	Sanskrit        string    `json:"sanskrit" gorm:"type:text;not null"`
	Transliteration string    `json:"transliteration" gorm:"type:text"`
	Meaning         string    `json:"meaning" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (GitaVerse) TableName() string { return "gita_verses" }

func (g *GitaVerse) IsValid() error {
	if g.Chapter < 1 || g.Chapter > 18 {
		return errors.New("chapter must be between 1 and 18")
	}
	if g.Verse < 1 {
		return errors.New("verse must be positive")
	}
	if g.Sanskrit == "" {
		return errors.New("sanskrit text is required")
	}
	return nil
}

// Mantra is a chant with optional audio.
type Mantra struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:128"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Deity     string    `json:"deity" gorm:"size:64;index"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Mantra) TableName() string { return "mantras" }

func (m *Mantra) IsValid() error {
	if m.Name == "" {
		return errors.New("mantra name is required")
	}
	if m.Text == "" {
		return errors.New("mantra text is required")
	}
	return nil
}

// PanchangamEntry is the almanac data for one calendar day.
type PanchangamEntry struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Date      time.Time `json:"date" gorm:"uniqueIndex;not null"` // midnight UTC
	Tithi     string    `json:"tithi" gorm:"size:64"`
	Nakshatra string    `json:"nakshatra" gorm:"size:64"`
	Yoga      string    `json:"yoga" gorm:"size:64"`
	Karana    string    `json:"karana" gorm:"size:64"`
	Sunrise   string    `json:"sunrise" gorm:"size:8"` // HH:MM local
	Sunset    string    `json:"sunset" gorm:"size:8"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PanchangamEntry) TableName() string { return "panchangam_entries" }

func (p *PanchangamEntry) IsValid() error {
	if p.Date.IsZero() {
		return errors.New("panchangam date is required")
	}
	return nil
}
