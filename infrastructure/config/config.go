package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration. It is built once at startup
// and passed explicitly into the store adapter, queue publisher, and mailer;
// nothing reads the environment per call.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion    string
	TableName    string
	IDIndexName  string // GSI1 - cross-partition lookup by appointment id
	QueueName    string // notification queue feeding the mailer
	EventBusName string

	// Mail configuration
	MailFrom   string
	MailAPIKey string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),
		TableName:     getEnv("TABLE_NAME", "visitdesk-appointments"),
		IDIndexName:   getEnv("ID_INDEX_NAME", "AppointmentIdIndex"),
		QueueName:     getEnv("QUEUE_NAME", "appointment-mails"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "visitdesk-events"),

		MailFrom:   getEnv("MAIL_FROM", "reception@visitdesk.example"),
		MailAPIKey: getEnv("MAIL_API_KEY", ""),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.QueueName == "" {
			return fmt.Errorf("QUEUE_NAME is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
