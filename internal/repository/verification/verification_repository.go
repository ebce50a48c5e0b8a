// File: internal/repository/verification/verification_repository.go
package verification

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
	"gorm.io/gorm"
)

var ErrCodeNotFound = errors.New("verification code not found")

type VerificationRepository interface {
	Create(ctx context.Context, code *domain.VerificationCode) (*domain.VerificationCode, error)
	// FindLatest returns the newest unexpired, unused code for a phone.
	FindLatest(ctx context.Context, phone string, codeType domain.VerificationCodeType) (*domain.VerificationCode, error)
	Save(ctx context.Context, code *domain.VerificationCode) error
	// InvalidateAll marks every outstanding code for a phone as used, so
	// sending a fresh OTP revokes the previous ones.
	InvalidateAll(ctx context.Context, phone string, codeType domain.VerificationCodeType) error
}

type gormVerificationRepository struct {
	db *gorm.DB
}

func NewGormVerificationRepository(db *gorm.DB) VerificationRepository {
	return &gormVerificationRepository{db: db}
}

func (r *gormVerificationRepository) Create(ctx context.Context, code *domain.VerificationCode) (*domain.VerificationCode, error) {
	if code.PhoneNumber == "" || code.Code == "" {
		return nil, errors.New("phone number and code are required")
	}
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		// The code value itself is never logged.
		log.Printf("[VerificationRepository] Database error creating code for phone ending %s: %v", maskPhone(code.PhoneNumber), err)
		return nil, errors.New("database error creating verification code")
	}
	return code, nil
}

func (r *gormVerificationRepository) FindLatest(ctx context.Context, phone string, codeType domain.VerificationCodeType) (*domain.VerificationCode, error) {
	if phone == "" {
		return nil, errors.New("invalid phone number")
	}
	var code domain.VerificationCode
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND type = ? AND is_used = ? AND expires_at > ?",
			phone, codeType, false, time.Now()).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		log.Printf("[VerificationRepository] Database error in FindLatest: %v", err)
		return nil, errors.New("database error finding verification code")
	}
	return &code, nil
}

func (r *gormVerificationRepository) Save(ctx context.Context, code *domain.VerificationCode) error {
	if code.ID == 0 {
		return errors.New("invalid verification code ID")
	}
	if err := r.db.WithContext(ctx).Save(code).Error; err != nil {
		log.Printf("[VerificationRepository] Database error saving code %d: %v", code.ID, err)
		return errors.New("database error saving verification code")
	}
	return nil
}

func (r *gormVerificationRepository) InvalidateAll(ctx context.Context, phone string, codeType domain.VerificationCodeType) error {
	if phone == "" {
		return errors.New("invalid phone number")
	}
	err := r.db.WithContext(ctx).
		Model(&domain.VerificationCode{}).
		Where("phone_number = ? AND type = ? AND is_used = ?", phone, codeType, false).
		Update("is_used", true).Error
	if err != nil {
		log.Printf("[VerificationRepository] Database error invalidating codes: %v", err)
		return errors.New("database error invalidating verification codes")
	}
	return nil
}

// maskPhone keeps only the last two digits for log lines.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return "**"
	}
	return "**" + phone[len(phone)-2:]
}
