// Package config handles configuration loading for the identity service.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Compiled-in signing defaults are deliberately weak and must be overridden
// in production.
const defaultJWTSecret = "change-me-in-production"

// Config holds all configuration for the identity service.
type Config struct {
	Port        string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Empty RedisHost disables login throttling.
	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret        string
	JWTAlgorithm     string
	UserTokenExpiry  time.Duration
	AdminTokenExpiry time.Duration

	OTPTTL                time.Duration
	OTPInvalidatePrevious bool
	OTPSweepInterval      time.Duration

	LoginMaxAttempts int
	LoginCooldown    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	BootstrapAdminUsername string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBHost:     getEnvRequired("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvRequired("DB_USER"),
		DBPassword: getEnvRequired("DB_PASSWORD"),
		DBName:     getEnvRequired("DB_NAME"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		JWTAlgorithm:     getEnv("JWT_ALGORITHM", "HS256"),
		UserTokenExpiry:  parseDuration(getEnv("USER_TOKEN_EXPIRY", "30m"), 30*time.Minute),
		AdminTokenExpiry: parseDuration(getEnv("ADMIN_TOKEN_EXPIRY", "480m"), 480*time.Minute),

		OTPTTL:                parseDuration(getEnv("OTP_TTL", "5m"), 5*time.Minute),
		OTPInvalidatePrevious: parseBool(getEnv("OTP_INVALIDATE_PREVIOUS", "false")),
		OTPSweepInterval:      parseDuration(getEnv("OTP_SWEEP_INTERVAL", "10m"), 10*time.Minute),

		LoginMaxAttempts: parseInt(getEnv("LOGIN_MAX_ATTEMPTS", "5"), 5),
		LoginCooldown:    parseDuration(getEnv("LOGIN_COOLDOWN", "15m"), 15*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPSender:   getEnv("SMTP_SENDER", ""),

		BootstrapAdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}
