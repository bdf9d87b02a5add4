package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI    string
	DBName      string
	Port        int
	MaxPort     int
	FrontendURL string
	AdminToken  string
	Env         string

	NotionAPIKey     string
	NotionDatabaseID string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
	EmailName    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:    getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:      getEnvOrDefault("DB_NAME", "neurobit"),
		Port:        getIntEnv("PORT", 5000),
		MaxPort:     getIntEnv("MAX_PORT", 5010),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		AdminToken:  getEnvOrDefault("ADMIN_TOKEN", ""),
		Env:         getEnvOrDefault("APP_ENV", "development"),

		NotionAPIKey:     getEnvOrDefault("NOTION_API_KEY", ""),
		NotionDatabaseID: getEnvOrDefault("NOTION_DATABASE_ID", ""),

		SMTPHost:     getEnvOrDefault("SMTP_HOST", "smtp.ethereal.email"),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUser:     getEnvOrDefault("SMTP_USER", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASS", ""),
		EmailFrom:    getEnvOrDefault("EMAIL_FROM", "hello@neurobit.com"),
		EmailName:    getEnvOrDefault("EMAIL_FROM_NAME", "NeuroBit"),
	}
}

// IsProduction hides internal error detail from API responses.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
