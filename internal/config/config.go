// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	LogLevel     string
	JWTSecretKey string

	// OTP SMS provider
	SMSAccessKey  string
	SMSSenderID   string
	SMSAPIURL     string
	SMSTemplateID string

	// Object storage (S3-compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	StoragePublicURL string

	// Chat
	BotTypingDelay   time.Duration
	BotFallbackReply string

	// Origins allowed to call the API and open the chat widget.
	AllowedOrigins []string

	DatabasePath string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),

		SMSAccessKey:  getEnv("SMS_ACCESS_KEY", ""),
		SMSSenderID:   getEnv("SMS_SENDER_ID", "BKMSVA"),
		SMSAPIURL:     getEnv("SMS_API_URL", ""),
		SMSTemplateID: getEnv("SMS_TEMPLATE_ID", ""),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "bookmyseva-uploads"),
		StorageUseSSL:    getEnvAsBool("STORAGE_USE_SSL", true),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),

		BotTypingDelay: getEnvAsDuration("BOT_TYPING_DELAY", time.Second),
		BotFallbackReply: getEnv("BOT_FALLBACK_REPLY",
			"I'm not sure about that. Would you like to talk to one of our team members?"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		DatabasePath: getEnv("DATABASE_PATH", "bookmyseva.db"),
	}

	// Fail fast in production when secrets are missing.
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.SMSAccessKey == "" {
			missing = append(missing, "SMS_ACCESS_KEY")
		}
		if cfg.SMSAPIURL == "" {
			missing = append(missing, "SMS_API_URL")
		}
		if cfg.StorageEndpoint == "" {
			missing = append(missing, "STORAGE_ENDPOINT")
		}
		if cfg.StorageAccessKey == "" {
			missing = append(missing, "STORAGE_ACCESS_KEY")
		}
		if cfg.StorageSecretKey == "" {
			missing = append(missing, "STORAGE_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}

// getEnvAsDuration gets an env var as a duration, with a fallback.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}
