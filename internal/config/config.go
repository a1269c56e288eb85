package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini          string
	DocumentUploadedTopic string // ingestion queue topic
}

type AIConfig struct {
	EmbeddingModel     string
	EmbeddingDimension int
	LLMModel           string
	ChunkSize          int
	ChunkOverlap       int
	RetrievalTopK      int
	ScoreThreshold     float64
	MaxHistoryMessages int
}

type StorageConfig struct {
	UploadDir       string
	MaxUploadSizeMB int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "StudyBuddy"),
		},
		Keys: APIKeys{
			GoogleGemini:          getEnv("GOOGLE_GEMINI_API_KEY", ""),
			DocumentUploadedTopic: getEnv("DOCUMENT_UPLOADED_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.0-flash"),
			ChunkSize:          getEnvAsInt("CHUNK_SIZE", 512),
			ChunkOverlap:       getEnvAsInt("CHUNK_OVERLAP", 50),
			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 5),
			ScoreThreshold:     getEnvAsFloat("RETRIEVAL_SCORE_THRESHOLD", 0.5),
			MaxHistoryMessages: getEnvAsInt("MAX_HISTORY_MESSAGES", 10),
		},
		Storage: StorageConfig{
			UploadDir:       getEnv("UPLOAD_DIR", "./uploads/documents"),
			MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10),
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
