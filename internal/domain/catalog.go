// File: internal/domain/catalog.go
package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Category groups products and services into a tree.
type Category struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"not null;size:128"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;not null;size:128"`
	ParentID  *uint          `json:"parent_id,omitempty" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) IsValid() error {
	if c.Name == "" {
		return errors.New("category name is required")
	}
	if c.Slug == "" {
		return errors.New("category slug is required")
	}
	return nil
}

// Product is a bookable seva/puja item or physical good.
type Product struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"not null;size:255"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Price       int64          `json:"price" gorm:"not null"` // paise
	CategoryID  *uint          `json:"category_id,omitempty" gorm:"index"`
	ImageURL    string         `json:"image_url,omitempty"`
	Active      bool           `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Product) TableName() string { return "products" }

func (p *Product) IsValid() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Slug == "" {
		return errors.New("product slug is required")
	}
	if p.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	return nil
}
