package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	SchoolAPIURL    string
	RedisAddr       string
	SessionBackend  string
	CookieName      string
	CookieSecure    bool
	JWTIssuer       string
	JWTSigningKey   string
	SessionTTL      time.Duration
	APITimeout      time.Duration
	RateLimitPerMin int
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8082"),
		SchoolAPIURL:    getEnv("SCHOOL_API_URL", "http://localhost:8000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		SessionBackend:  getEnv("SESSION_BACKEND", "redis"),
		CookieName:      getEnv("COOKIE_NAME", "rollbook_session"),
		CookieSecure:    boolEnv("COOKIE_SECURE", false),
		JWTIssuer:       getEnv("JWT_ISSUER", "rollbook"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		SessionTTL:      durationEnv("SESSION_TTL", 24*time.Hour),
		APITimeout:      durationEnv("API_TIMEOUT", 15*time.Second),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
