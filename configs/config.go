package config

import (
	"os"
)

// AppVersion は保存レコードのapp_version列に記録するアプリのバージョンです。
const AppVersion = "v1.0.0"

// Config holds the application configuration
type Config struct {
	Port             string
	Environment      string
	OpenAIEndpoint   string
	OpenAIAPIKey     string
	OpenAIModel      string
	ExcelBookPath    string
	ResponsesCSVPath string
	EventsCSVPath    string
	QuestionsPath    string
	AdminMode        bool
	AdminUsername    string
	AdminPassword    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		OpenAIEndpoint:   getEnv("OPENAI_ENDPOINT", "https://api.openai.com"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ExcelBookPath:    getEnv("EXCEL_BOOK_PATH", ""),
		ResponsesCSVPath: getEnv("RESPONSES_CSV_PATH", "responses.csv"),
		EventsCSVPath:    getEnv("EVENTS_CSV_PATH", "events.csv"),
		QuestionsPath:    getEnv("QUESTIONS_PATH", "configs/questions.yaml"),
		AdminMode:        getEnv("ADMIN_MODE", "0") == "1",
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "default_secret_key"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
