// File: internal/services/sms/service_test.go
package sms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookmyseva/backend/internal/logging"
)

func TestProviderStatusReflectsConfig(t *testing.T) {
	healthy := NewMSG91Provider(&Config{
		AccessKey:  "key",
		SenderID:   "BKMSVA",
		TemplateID: "tmpl",
		APIURL:     "https://control.msg91.com/api/v5/flow/",
		Timeout:    time.Second,
	})
	status := NewSMSService(healthy, logging.NopLogger{}).GetProviderStatus()
	assert.True(t, status.IsHealthy)

	broken := NewMSG91Provider(&Config{Timeout: time.Second})
	status = NewSMSService(broken, logging.NopLogger{}).GetProviderStatus()
	assert.False(t, status.IsHealthy)
	assert.Contains(t, status.Message, "SMS_ACCESS_KEY")
}
