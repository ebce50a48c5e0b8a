// File: internal/services/sms/service.go
package sms

import (
	"context"

	"github.com/bookmyseva/backend/internal/logging"
)

// SMSService wraps a Provider with retry and health reporting.
type SMSService struct {
	provider Provider
	retry    *RetryConfig
	logger   logging.Logger
}

func NewSMSService(provider Provider, logger logging.Logger) *SMSService {
	return &SMSService{
		provider: provider,
		retry:    DefaultRetryConfig(),
		logger:   logger,
	}
}

// SendCode delivers an OTP, retrying transient failures. The code value
// is never logged.
func (s *SMSService) SendCode(ctx context.Context, phone, code string) error {
	err := RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		return s.provider.SendVerificationCode(ctx, phone, code)
	})
	if err != nil {
		s.logger.Error("OTP delivery failed", "error", err)
		return err
	}
	s.logger.Info("OTP delivered")
	return nil
}

func (s *SMSService) GetProviderStatus() ProviderStatus {
	if err := s.provider.HealthCheck(context.Background()); err != nil {
		return ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return ProviderStatus{IsHealthy: true, Message: "ok"}
}
