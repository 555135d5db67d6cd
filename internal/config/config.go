package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	SMTP         SMTPConfig
	Keys         APIKeys
	Auth         AuthConfig
	Ai           AIConfig
	Conversation ConversationConfig
	Storage      StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AssistantLogPath   string
	CorsAllowedOrigins string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	BcryptCost    int
}

type AIConfig struct {
	LLMProvider string // "gemini", "ollama", "huggingface"
	LLMModel    string
	BaseURL     string // optional override of the provider endpoint
	Timeout     time.Duration
	Temperature float64
	TopK        int
	TopP        float64
	MaxTokens   int
}

type ConversationConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type StorageConfig struct {
	Driver         string // "local" or "minio"
	UploadDir      string
	PublicPath     string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("PORT", "3001"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3001"),
			ClientURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AssistantLogPath:   getEnv("ASSISTANT_LOG_PATH", "logs/assistant.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", getEnv("FRONTEND_URL", "http://localhost:3000")),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogSQL:          getEnvAsBool("DB_LOG_SQL", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Cadastro de Prestadores"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
			JWTExpiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
			BcryptCost:    getEnvAsInt("BCRYPT_COST", 10),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:    getEnv("LLM_MODEL", "gemini-2.0-flash"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", 30*time.Second),
			Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.7),
			TopK:        getEnvAsInt("AI_TOP_K", 40),
			TopP:        getEnvAsFloat("AI_TOP_P", 0.95),
			MaxTokens:   getEnvAsInt("AI_MAX_TOKENS", 1024),
		},
		Conversation: ConversationConfig{
			Store: getEnv("CONVERSATION_STORE", "memory"),
			TTL:   getEnvAsDuration("CONVERSATION_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			PublicPath:     getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "prestadores"),
			MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
	}
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

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
