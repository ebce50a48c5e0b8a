// File: internal/services/sms/msg91_provider.go
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// MSG91Provider delivers OTP SMS through the MSG91 flow API.
type MSG91Provider struct {
	config *Config
	client *http.Client
}

func NewMSG91Provider(config *Config) *MSG91Provider {
	return &MSG91Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (p *MSG91Provider) SendVerificationCode(ctx context.Context, phone, code string) error {
	payload := map[string]interface{}{
		"template_id": p.config.TemplateID,
		"sender":      p.config.SenderID,
		"mobiles":     phone,
		"otp":         code,
	}
	return p.sendRequest(ctx, payload)
}

func (p *MSG91Provider) sendRequest(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &SMSError{Type: ErrTypeValidation, Message: "invalid payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return &SMSError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", p.config.AccessKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &SMSError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	return p.handleResponse(resp)
}

func (p *MSG91Provider) handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	responseBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return &SMSError{
			Type:    ErrTypeRateLimit,
			Code:    resp.StatusCode,
			Message: "rate limit exceeded",
		}
	}

	return &SMSError{
		Type:    ErrTypeProvider,
		Code:    resp.StatusCode,
		Message: string(responseBody),
	}
}

// HealthCheck verifies the provider is configured to deliver. MSG91 has
// no ping endpoint, so this validates credentials rather than the network.
func (p *MSG91Provider) HealthCheck(ctx context.Context) error {
	return p.config.Validate()
}
