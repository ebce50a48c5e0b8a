// File: internal/domain/blog.go
package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Blog is an editorial article. Body is stored as markdown and rendered
// to HTML on read when the client asks for it.
type Blog struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Title       string         `json:"title" gorm:"not null;size:255"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Body        string         `json:"body" gorm:"type:text;not null"`
	Author      string         `json:"author" gorm:"size:128"`
	CoverImage  string         `json:"cover_image,omitempty"`
	Published   bool           `json:"published" gorm:"default:false;index"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Blog) TableName() string { return "blogs" }

func (b *Blog) IsValid() error {
	if b.Title == "" {
		return errors.New("blog title is required")
	}
	if b.Slug == "" {
		return errors.New("blog slug is required")
	}
	if b.Body == "" {
		return errors.New("blog body is required")
	}
	return nil
}
