package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TraceLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	// Connection empty means the in-memory store.
	Connection  string
	AutoMigrate bool
}

type APIKeys struct {
	OpenAI    string
	JwtSecret string
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "openai"
	OllamaBaseURL        string
	OllamaModel          string
	OpenAIBaseURL        string
	OpenAIEmbeddingModel string
	LLMProvider          string // "ollama" or "openai"
	LLMModel             string
	LLMMaxTokens         int
	EmbeddingTimeout     time.Duration
	LLMTimeout           time.Duration
}

type RagConfig struct {
	IndexStorage  string // "file" or "badger"
	IndexDir      string
	IndexCacheTTL time.Duration
	UploadDir     string
	TopK          int
	LockTTL       time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			TraceLogFilePath:   getEnv("TRACE_LOG_FILE_PATH", "llm_trace.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:          getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
			OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			LLMMaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 0),
			EmbeddingTimeout:     time.Duration(getEnvAsInt("EMBEDDING_TIMEOUT_SECONDS", 60)) * time.Second,
			LLMTimeout:           time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Rag: RagConfig{
			IndexStorage:  getEnv("INDEX_STORAGE", "file"),
			IndexDir:      getEnv("INDEX_DIR", "indexes"),
			IndexCacheTTL: time.Duration(getEnvAsInt("INDEX_CACHE_TTL_SECONDS", 600)) * time.Second,
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			TopK:          getEnvAsInt("RAG_TOP_K", 10),
			LockTTL:       time.Duration(getEnvAsInt("INDEX_LOCK_TTL_SECONDS", 300)) * time.Second,
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
