// File: internal/domain/enquiry.go
package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Enquiry statuses.
const (
	EnquiryOpen     = "open"
	EnquiryResolved = "resolved"
	EnquiryClosed   = "closed"
)

// Enquiry is a contact-form submission. Created publicly, managed by admins.
type Enquiry struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"not null;size:128"`
	Phone     string         `json:"phone" gorm:"not null;size:15"`
	Email     string         `json:"email" gorm:"size:255"`
	Subject   string         `json:"subject" gorm:"size:255"`
	Message   string         `json:"message" gorm:"type:text;not null"`
	Status    string         `json:"status" gorm:"default:open;size:16;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Enquiry) TableName() string { return "enquiries" }

func (e *Enquiry) IsValid() error {
	if e.Name == "" {
		return errors.New("enquiry name is required")
	}
	if e.Phone == "" {
		return errors.New("enquiry phone is required")
	}
	if e.Message == "" {
		return errors.New("enquiry message is required")
	}
	return nil
}

// Rider is a delivery/service rider assigned to bookings.
type Rider struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"not null;size:128"`
	Phone         string         `json:"phone" gorm:"uniqueIndex;not null;size:15"`
	VehicleNumber string         `json:"vehicle_number" gorm:"size:20"`
	CurrentArea   string         `json:"current_area" gorm:"size:128"`
	Active        bool           `json:"active" gorm:"default:true;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Rider) TableName() string { return "riders" }

func (r *Rider) IsValid() error {
	if r.Name == "" {
		return errors.New("rider name is required")
	}
	if r.Phone == "" {
		return errors.New("rider phone is required")
	}
	return nil
}
