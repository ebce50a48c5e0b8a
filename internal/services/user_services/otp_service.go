// File: internal/services/user_services/otp_service.go
package user_services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/bookmyseva/backend/internal/domain"
	"github.com/bookmyseva/backend/internal/logging"
	"github.com/bookmyseva/backend/internal/repository/user"
	"github.com/bookmyseva/backend/internal/repository/verification"
	"github.com/bookmyseva/backend/internal/services/sms"
)

var (
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

const (
	otpLength  = 6
	otpTTL     = 10 * time.Minute
	otpCooloff = time.Minute
)

// OTPService issues and verifies one-time login codes for customers.
// Codes are stored hashed-equivalent in plain short-lived rows; a fresh
// send revokes all outstanding codes for the phone.
type OTPService struct {
	users  user.UserRepository
	codes  verification.VerificationRepository
	sms    sms.Service
	logger logging.Logger
}

func NewOTPService(users user.UserRepository, codes verification.VerificationRepository, smsService sms.Service, logger logging.Logger) *OTPService {
	return &OTPService{
		users:  users,
		codes:  codes,
		sms:    smsService,
		logger: logger,
	}
}

// SendLoginCode generates a login OTP for the phone and delivers it by
// SMS. The account does not need to exist yet; it is created on verify.
func (s *OTPService) SendLoginCode(ctx context.Context, phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}

	// Resend cooloff: refuse while an unexpired code is younger than a minute.
	if latest, err := s.codes.FindLatest(ctx, phone, domain.VerificationTypeLogin); err == nil {
		if time.Since(latest.CreatedAt) < otpCooloff {
			s.logger.Warn("OTP resend throttled")
			return errors.New("please wait before requesting another code")
		}
	}

	if err := s.codes.InvalidateAll(ctx, phone, domain.VerificationTypeLogin); err != nil {
		return fmt.Errorf("failed to revoke outstanding codes: %w", err)
	}

	code, err := generateCode(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	record := &domain.VerificationCode{
		PhoneNumber: phone,
		Code:        code,
		Type:        domain.VerificationTypeLogin,
		ExpiresAt:   time.Now().Add(otpTTL),
		MaxAttempts: 3,
	}
	if _, err := s.codes.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.sms.SendCode(ctx, phone, code); err != nil {
		s.logger.Error("OTP delivery failed", "error", err)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	s.logger.Info("login code sent")
	return nil
}

// VerifyLoginCode redeems an OTP. On success the customer account is
// created if it does not exist and is returned verified.
func (s *OTPService) VerifyLoginCode(ctx context.Context, phone, code string) (*domain.User, error) {
	if phone == "" || code == "" {
		return nil, errors.New("phone number and code are required")
	}

	record, err := s.codes.FindLatest(ctx, phone, domain.VerificationTypeLogin)
	if err != nil {
		if errors.Is(err, verification.ErrCodeNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	if !record.CanAttempt() {
		return nil, ErrTooManyAttempts
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	if record.Code != code {
		record.IncrementAttempt()
		if err := s.codes.Save(ctx, record); err != nil {
			s.logger.Error("failed to record failed attempt", "error", err)
		}
		return nil, ErrInvalidCode
	}

	record.UseCode()
	if err := s.codes.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to redeem code: %w", err)
	}

	account, err := s.users.FindByPhoneNumber(ctx, phone)
	if errors.Is(err, user.ErrUserNotFound) {
		account = &domain.User{
			PhoneNumber: phone,
			Role:        domain.RoleCustomer,
			Verified:    true,
		}
		if account, err = s.users.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		s.logger.Info("customer account created", "user_id", account.ID)
		return account, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !account.Verified {
		account.Verified = true
		if err := s.users.Save(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to mark account verified: %w", err)
		}
	}
	return account, nil
}

// generateCode produces an n-digit numeric OTP from crypto/rand.
func generateCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
