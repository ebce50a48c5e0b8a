// File: internal/domain/user.go
package domain

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User roles. Customers authenticate by OTP; admins carry a password hash.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number" gorm:"uniqueIndex;not null;size:15"`
	Email       string    `json:"email"`
	Role        string    `json:"role" gorm:"not null;default:customer;size:20"`
	Password    string    `json:"-"` // set only for admin accounts
	Verified    bool      `json:"verified" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HashPassword securely hashes an admin password.
func (u *User) HashPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsValid() error {
	if u.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return errors.New("invalid role")
	}
	return nil
}
