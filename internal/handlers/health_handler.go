// File: internal/handlers/health_handler.go
package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/services/sms"
)

// HealthHandler reports liveness, database reachability and OTP delivery
// provider status.
type HealthHandler struct {
	DB  *gorm.DB
	SMS sms.Service
}

func NewHealthHandler(db *gorm.DB, smsService sms.Service) *HealthHandler {
	return &HealthHandler{DB: db, SMS: smsService}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := map[string]string{"status": "ok", "database": "ok", "sms": "ok"}
	status := http.StatusOK

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		report["status"] = "degraded"
		report["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if ps := h.SMS.GetProviderStatus(); !ps.IsHealthy {
		report["status"] = "degraded"
		report["sms"] = ps.Message
	}

	respondJSON(w, status, report)
}
