// File: internal/domain/verification_code.go
package domain

import (
	"time"

	"gorm.io/gorm"
)

// VerificationCodeType defines different kinds of one-time codes.
type VerificationCodeType string

const (
	VerificationTypeLogin    VerificationCodeType = "login"
	VerificationTypePassword VerificationCodeType = "password_reset"
)

// VerificationCode is a temporary OTP issued to a phone number.
type VerificationCode struct {
	ID          uint                 `gorm:"primaryKey"`
	PhoneNumber string               `gorm:"index;not null;size:15"`
	Code        string               `gorm:"not null;size:10"`
	Type        VerificationCodeType `gorm:"not null;size:20;index"`

	// Abuse controls
	ExpiresAt   time.Time `gorm:"index;not null"`
	Attempts    int       `gorm:"not null;default:0"`
	MaxAttempts int       `gorm:"not null;default:3"`

	UsedAt *time.Time `gorm:"default:null"`
	IsUsed bool       `gorm:"default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsValid reports whether the code can still be redeemed.
func (v *VerificationCode) IsValid() bool {
	return !v.IsUsed && v.Attempts < v.MaxAttempts && time.Now().Before(v.ExpiresAt)
}

// CanAttempt reports whether another verification attempt is allowed.
func (v *VerificationCode) CanAttempt() bool {
	return v.Attempts < v.MaxAttempts && !v.IsUsed
}

// UseCode marks the code as redeemed.
func (v *VerificationCode) UseCode() {
	now := time.Now()
	v.IsUsed = true
	v.UsedAt = &now
}

// IncrementAttempt bumps the attempt counter.
func (v *VerificationCode) IncrementAttempt() {
	v.Attempts++
}
