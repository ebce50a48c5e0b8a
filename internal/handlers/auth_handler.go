// File: internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bookmyseva/backend/internal/middleware"
	"github.com/bookmyseva/backend/internal/services/user_services"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// AuthHandler serves the OTP login flow and admin password login.
type AuthHandler struct {
	OTPService  *user_services.OTPService
	AuthService *user_services.AuthService
}

func NewAuthHandler(otpService *user_services.OTPService, authService *user_services.AuthService) *AuthHandler {
	return &AuthHandler{OTPService: otpService, AuthService: authService}
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTP handles POST /auth/otp/send.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if !phoneRegex.MatchString(phone) {
		respondError(w, http.StatusBadRequest, "phone number format invalid")
		return
	}

	if err := h.OTPService.SendLoginCode(r.Context(), phone); err != nil {
		log.Printf("[AuthHandler] OTP send failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not send verification code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyOTP handles POST /auth/otp/verify. On success it sets the auth
// cookie and returns the token for non-browser clients.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.OTPService.VerifyLoginCode(r.Context(), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, user_services.ErrInvalidCode),
			errors.Is(err, user_services.ErrCodeExpired),
			errors.Is(err, user_services.ErrTooManyAttempts):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Printf("[AuthHandler] OTP verify failed: %v", err)
			respondError(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	token, err := h.AuthService.TokenForUser(account)
	if err != nil {
		log.Printf("[AuthHandler] Token issue failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	setAuthCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": account})
}

type adminLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, token, err := h.AuthService.AdminLogin(r.Context(), strings.TrimSpace(req.Phone), req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("[AuthHandler] Admin login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	setAuthCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": account})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.AuthService.CurrentUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Logout handles GET /auth/logout by expiring the auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((72 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
