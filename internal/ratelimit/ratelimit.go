// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize    time.Duration // time window for counting attempts
	MaxAttempts   int           // attempts allowed per window
	CleanupPeriod time.Duration // how often stale records are swept
	BanDuration   time.Duration // lockout after the limit is exceeded
}

// DefaultAuthConfig returns sensible defaults for auth endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   5,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// OTPConfig returns stricter limits for OTP send/verify endpoints.
func OTPConfig() *Config {
	return &Config{
		WindowSize:    10 * time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: 20 * time.Minute,
		BanDuration:   60 * time.Minute,
	}
}

// Info describes the outcome of an Allow check.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

type record struct {
	count     int
	firstSeen time.Time
	bannedAt  *time.Time
}

// Limiter is an in-memory sliding-window rate limiter with ban windows.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	records map[string]*record
	stopCh  chan struct{}
}

// New creates a limiter and starts its cleanup goroutine.
func New(config *Config) *Limiter {
	l := &Limiter{
		config:  config,
		records: make(map[string]*record),
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow checks whether a request from the identifier should proceed.
func (l *Limiter) Allow(identifier string) (bool, *Info) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	rec, exists := l.records[identifier]

	if !exists {
		l.records[identifier] = &record{count: 1, firstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: l.config.MaxAttempts - 1,
			ResetTime: now.Add(l.config.WindowSize),
		}
	}

	if rec.bannedAt != nil && now.Sub(*rec.bannedAt) < l.config.BanDuration {
		remaining := l.config.BanDuration - now.Sub(*rec.bannedAt)
		return false, &Info{
			Allowed:    false,
			ResetTime:  rec.bannedAt.Add(l.config.BanDuration),
			RetryAfter: remaining,
			Banned:     true,
		}
	}

	if now.Sub(rec.firstSeen) > l.config.WindowSize {
		rec.count = 1
		rec.firstSeen = now
		rec.bannedAt = nil
		return true, &Info{
			Allowed:   true,
			Remaining: l.config.MaxAttempts - 1,
			ResetTime: now.Add(l.config.WindowSize),
		}
	}

	rec.count++
	if rec.count > l.config.MaxAttempts {
		banTime := now
		rec.bannedAt = &banTime
		return false, &Info{
			Allowed:    false,
			ResetTime:  now.Add(l.config.BanDuration),
			RetryAfter: l.config.BanDuration,
			Banned:     true,
		}
	}

	return true, &Info{
		Allowed:   true,
		Remaining: l.config.MaxAttempts - rec.count,
		ResetTime: rec.firstSeen.Add(l.config.WindowSize),
	}
}

// RecordSuccess resets the counter after a successful authentication.
func (l *Limiter) RecordSuccess(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, identifier)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	for identifier, rec := range l.records {
		windowExpired := now.Sub(rec.firstSeen) > l.config.WindowSize
		banExpired := rec.bannedAt != nil && now.Sub(*rec.bannedAt) > l.config.BanDuration
		if (windowExpired && rec.bannedAt == nil) || banExpired {
			delete(l.records, identifier)
		}
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	close(l.stopCh)
}

// ClientIP extracts the real client IP from a request, honoring proxy headers.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
