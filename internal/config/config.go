package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Security SecurityConfig
	Ai       AIConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	ApiPrefix          string
	ProjectName        string
	Environment        string
	Debug              bool
	LogFilePath        string
	CorsAllowedOrigins []string
}

type DatabaseConfig struct {
	Connection  string
	AutoMigrate bool
}

type SecurityConfig struct {
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
}

type AIConfig struct {
	Provider       string // "openai" or "ollama"
	ApiKey         string
	Model          string
	MaxTokens      int
	Temperature    float64
	OllamaBaseURL  string
	TimeoutSeconds int
	MockLatencyMin time.Duration
	MockLatencyMax time.Duration
}

type EventsConfig struct {
	NatsURL string // empty disables event publishing
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			ApiPrefix:          getEnv("API_V1_PREFIX", "/api"),
			ProjectName:        getEnv("PROJECT_NAME", "StudyBuddy AI"),
			Environment:        getEnv("ENVIRONMENT", "development"),
			Debug:              getEnvAsBool("DEBUG", true),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnvAsList("BACKEND_CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"}),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DATABASE_URL", ""),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),
		},
		Security: SecurityConfig{
			SecretKey:                getEnv("SECRET_KEY", ""),
			Algorithm:                getEnv("ALGORITHM", "HS256"),
			AccessTokenExpireMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		},
		Ai: AIConfig{
			Provider:       getEnv("LLM_PROVIDER", "openai"),
			ApiKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:      getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Temperature:    getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			MockLatencyMin: time.Duration(getEnvAsInt("MOCK_LATENCY_MS_MIN", 1000)) * time.Millisecond,
			MockLatencyMax: time.Duration(getEnvAsInt("MOCK_LATENCY_MS_MAX", 2500)) * time.Millisecond,
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// Validate reports settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Connection == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.Security.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is not set"))
	}
	if c.Security.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Security.AccessTokenExpireMinutes) * time.Minute
}

func (c *AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
