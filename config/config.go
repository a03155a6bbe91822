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
	Port        string
	DBUrl       string
	FrontendURL string
	LogLevel    string
	// SMTP Configuration (Brevo)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string // Verified sender email (different from SMTP login)
	HREmailTo     string // Blind copy of every confirmation; empty disables
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Wizard sessions
	SessionTTL time.Duration
	// Submission
	SubmitSimulationDelay time.Duration
	SubmitMaxAttempts     int
	SubmitBackoffBase     time.Duration
	// Export
	ExportPrefix string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitSubmitThreshold int
	// Upload limit for resumes, in bytes
	MaxResumeBytes int64
	// clamd address ("host:3310" or a unix socket path); empty disables scanning
	ClamAVAddress string
	ClamAVTimeout time.Duration
	// Serve /swagger (disable in production if the API is private)
	SwaggerEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "careers@tedred.com"),
		HREmailTo:     getEnv("HR_EMAIL_TO", ""),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Wizard sessions
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		// Submission
		SubmitSimulationDelay: getEnvDuration("SUBMIT_SIMULATION_DELAY_MS", 1500*time.Millisecond, time.Millisecond),
		SubmitMaxAttempts:     getEnvInt("SUBMIT_MAX_ATTEMPTS", 3),
		SubmitBackoffBase:     getEnvDuration("SUBMIT_BACKOFF_BASE_MS", 200*time.Millisecond, time.Millisecond),
		// Export
		ExportPrefix: getEnv("EXPORT_PREFIX", "TedRed"),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 300), // wizard autosaves are chatty
		RateLimitSubmitThreshold: getEnvInt("RATE_LIMIT_SUBMIT_THRESHOLD", 10),  // 10 submit/export calls per window
		MaxResumeBytes:           int64(getEnvInt("MAX_RESUME_BYTES", 5<<20)),
		ClamAVAddress:            getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:            getEnvDuration("CLAMAV_TIMEOUT_SECONDS", 30*time.Second, time.Second),
		SwaggerEnabled:           getEnvBool("SWAGGER_ENABLED", true),
	}

	if cfg.SubmitMaxAttempts < 1 {
		cfg.SubmitMaxAttempts = 1
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Submissions will use the simulated submitter.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Sessions and rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration reads an integer count of unit (e.g. milliseconds)
func getEnvDuration(key string, fallback, unit time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return time.Duration(n) * unit
		}
	}
	return fallback
}
