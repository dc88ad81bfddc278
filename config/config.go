package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port        string
	DatabaseURL string
	GinMode     string
	CORSOrigins []string

	JWTSecret    string
	JWTTTL       time.Duration
	OIDCIssuer   string
	OIDCClientID string

	PaymentBaseURL   string
	PaymentSecretKey string
	PaymentTimeout   time.Duration

	SMSAPIURL   string
	SMSUsername string
	SMSAPIKey   string
}

// Load reads .env when present and then the process environment.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] [INFO] .env not loaded:", err)
	}
	AppEnv = FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", "host=postgres user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"),
		GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),

		JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),
		JWTTTL:       getDurationEnv("JWT_TTL", 24*time.Hour),
		OIDCIssuer:   getEnvOrDefault("OIDC_ISSUER", ""),
		OIDCClientID: getEnvOrDefault("OIDC_CLIENT_ID", ""),

		PaymentBaseURL:   getEnvOrDefault("PAYMENT_BASE_URL", "https://api.tosspayments.com"),
		PaymentSecretKey: getEnvOrDefault("PAYMENT_SECRET_KEY", ""),
		PaymentTimeout:   getDurationEnv("PAYMENT_TIMEOUT", 10*time.Second),

		SMSAPIURL:   getEnvOrDefault("SMS_API_URL", ""),
		SMSUsername: getEnvOrDefault("SMS_USERNAME", ""),
		SMSAPIKey:   getEnvOrDefault("SMS_API_KEY", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() []string {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.PaymentSecretKey == "" {
		missing = append(missing, "PAYMENT_SECRET_KEY")
	}
	if (c.OIDCIssuer == "") != (c.OIDCClientID == "") {
		missing = append(missing, "OIDC_ISSUER and OIDC_CLIENT_ID must be set together")
	}
	return missing
}

func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

func (c Config) SMSEnabled() bool {
	return c.SMSAPIURL != "" && c.SMSAPIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s", "24h").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("[CONFIG] [WARN] invalid duration for %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
