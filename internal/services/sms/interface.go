// File: internal/services/sms/interface.go
package sms

import "context"

// ProviderStatus reports provider health.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// Provider delivers a one-time code to a phone number.
type Provider interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
	HealthCheck(ctx context.Context) error
}

// Service is the OTP delivery surface the auth layer talks to.
type Service interface {
	SendCode(ctx context.Context, phone, code string) error
	GetProviderStatus() ProviderStatus
}
