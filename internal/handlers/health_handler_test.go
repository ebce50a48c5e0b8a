// File: internal/handlers/health_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/services/sms"
)

type stubSMS struct {
	status sms.ProviderStatus
}

func (s *stubSMS) SendCode(ctx context.Context, phone, code string) error { return nil }
func (s *stubSMS) GetProviderStatus() sms.ProviderStatus                  { return s.status }

func healthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "health.db")), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestHealthReportsAllChecks(t *testing.T) {
	h := NewHealthHandler(healthDB(t), &stubSMS{status: sms.ProviderStatus{IsHealthy: true, Message: "ok"}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var report map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "ok", report["status"])
	assert.Equal(t, "ok", report["database"])
	assert.Equal(t, "ok", report["sms"])
}

func TestHealthDegradedWhenSMSUnhealthy(t *testing.T) {
	h := NewHealthHandler(healthDB(t), &stubSMS{status: sms.ProviderStatus{IsHealthy: false, Message: "SMS_ACCESS_KEY is required"}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// SMS trouble degrades the report but the API itself still serves.
	require.Equal(t, http.StatusOK, rec.Code)
	var report map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "degraded", report["status"])
	assert.Equal(t, "SMS_ACCESS_KEY is required", report["sms"])
}
