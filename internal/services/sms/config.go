// File: internal/services/sms/config.go
package sms

import (
	"fmt"
	"time"
)

type Config struct {
	AccessKey  string
	SenderID   string
	TemplateID string
	APIURL     string
	Timeout    time.Duration
}

func (c *Config) Validate() error {
	if c.AccessKey == "" {
		return fmt.Errorf("SMS_ACCESS_KEY is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("SMS_API_URL is required")
	}
	if c.TemplateID == "" {
		return fmt.Errorf("SMS_TEMPLATE_ID is required")
	}
	return nil
}
