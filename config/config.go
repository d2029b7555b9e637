package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	AppBaseURL string

	SMTPHost    string
	SMTPPort    string
	EmailSender string
	Password    string // SMTP password

	AdminNotificationEmail string

	StorageEndpoint string // S3-compatible object storage base URL
	StorageBucket   string
	StorageAPIKey   string
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
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("EMAIL_PASSWORD", "defaultSecret"),

		AdminNotificationEmail: getEnv("ADMIN_NOTIFICATION_EMAIL", ""),

		StorageEndpoint: getEnv("STORAGE_ENDPOINT", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", "learnhub-media"),
		StorageAPIKey:   getEnv("STORAGE_API_KEY", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AdminNotificationEmail == "" {
		log.Println("Warning: ADMIN_NOTIFICATION_EMAIL is not set. Teacher approval emails will be skipped.")
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
