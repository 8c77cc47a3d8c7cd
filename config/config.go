package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	CorsOrigins string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDsn      string // Overrides the host/user/... fields when set
	DBLogLevel string

	JWTKey    string
	SaltRound int

	SendgridApiKey  string
	EmailSender     string
	EmailSenderName string

	PaymentGateway        string // simulated, http
	PaymentGatewayURL     string
	PaymentGatewayKey     string
	PaymentSimulatedDelay int // milliseconds
	RequirePayment        bool
	Currency              string

	RollbarToken     string
	SchedulerEnabled bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("APP_ENV", "development"),
		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "kaif_academy"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBDsn:      getEnv("DB_DSN", ""),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 12),

		SendgridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@kaiftechacademy.com"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Kaif Tech Academy"),

		PaymentGateway:        strings.ToLower(getEnv("PAYMENT_GATEWAY", "simulated")),
		PaymentGatewayURL:     getEnv("PAYMENT_GATEWAY_URL", ""),
		PaymentGatewayKey:     getEnv("PAYMENT_GATEWAY_KEY", ""),
		PaymentSimulatedDelay: getEnvInt("PAYMENT_SIMULATED_DELAY_MS", 2000),
		RequirePayment:        getEnvBool("REQUIRE_PAYMENT", false),
		Currency:              getEnv("CURRENCY", "INR"),

		RollbarToken:     getEnv("ROLLBAR_TOKEN", ""),
		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentGateway == "http" && AppConfig.PaymentGatewayURL == "" {
		log.Println("Warning: PAYMENT_GATEWAY=http without PAYMENT_GATEWAY_URL. Falling back to simulated payments.")
		AppConfig.PaymentGateway = "simulated"
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
