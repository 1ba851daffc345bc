package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Security SecurityConfig
	Payment  PaymentConfig
	Mail     MailConfig
	Push     PushConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost int
}

// PaymentConfig holds payment gateway configuration. ServerKey signs
// outbound charges and verifies inbound webhook signatures.
type PaymentConfig struct {
	Environment string // "sandbox" or "production"
	ServerKey   string
	ClientKey   string
	ChargeURL   string
	ExpiryHours int // validity window requested on charge
}

// MailConfig holds the transactional email gateway configuration
type MailConfig struct {
	Mode    string // "dev" logs instead of sending
	APIURL  string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

// PushConfig holds the push notification gateway configuration
type PushConfig struct {
	Mode    string // "dev" logs instead of sending
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 86400)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
		Payment: PaymentConfig{
			Environment: getEnv("PAYMENT_ENVIRONMENT", "sandbox"),
			ServerKey:   getEnv("PAYMENT_SERVER_KEY", ""),
			ClientKey:   getEnv("PAYMENT_CLIENT_KEY", ""),
			ChargeURL:   getEnv("PAYMENT_CHARGE_URL", ""),
			ExpiryHours: getEnvAsInt("PAYMENT_EXPIRY_HOURS", 24),
		},
		Mail: MailConfig{
			Mode:    getEnv("MAIL_MODE", "dev"),
			APIURL:  getEnv("MAIL_API_URL", ""),
			APIKey:  getEnv("MAIL_API_KEY", ""),
			Sender:  getEnv("MAIL_SENDER", "no-reply@skytrip.id"),
			Timeout: time.Duration(getEnvAsInt("MAIL_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Push: PushConfig{
			Mode:    getEnv("PUSH_MODE", "dev"),
			APIURL:  getEnv("PUSH_API_URL", ""),
			APIKey:  getEnv("PUSH_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("PUSH_TIMEOUT_SECONDS", 15)) * time.Second,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Server.Environment == "production" {
		if c.Payment.ServerKey == "" {
			return fmt.Errorf("PAYMENT_SERVER_KEY is required in production")
		}
		if c.Mail.Mode == "production" && c.Mail.APIURL == "" {
			return fmt.Errorf("MAIL_API_URL is required when MAIL_MODE=production")
		}
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
