package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ollama    OllamaConfig
	Retrieval RetrievalConfig
	Kiwix     KiwixConfig
	Web       WebConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables event publishing
	APIKey             string // empty disables the API key guard
	LogLevel           string
	LogPath            string
}

type DatabaseConfig struct {
	Path string
}

type OllamaConfig struct {
	BaseURL     string
	EmbedModel  string
	ChatModel   string
	RouteModel  string
	RerankModel string
}

type RetrievalConfig struct {
	TopKDefault      int
	TopKMax          int
	MMRLambda        float64
	JSONMaxParseSize int
	RouteTimeout     time.Duration
	RerankTimeout    time.Duration
	RouteCacheTTL    time.Duration
}

type KiwixConfig struct {
	BaseURL string // empty disables the kiwix provider
	Pages   int
}

type WebConfig struct {
	AllowedHosts string
	BlockedHosts string
	UserAgent    string
}

// CacheConfig sizes the bounded TTL cache behind the status endpoints.
// OTEL_ENABLED and OTEL_EXPORTER_OTLP_ENDPOINT are read by the tracer
// directly.
type CacheConfig struct {
	StatusTTL  time.Duration
	StatusSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	chatModel := getEnv("CHAT_MODEL", "llama3.1")

	return &Config{
		App: AppConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			Environment:        getEnv("GO_ENV", "development"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			APIKey:             getEnv("API_KEY", ""),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			LogPath:            getEnv("LOG_PATH", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/cognihub.db"),
		},
		Ollama: OllamaConfig{
			BaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbedModel:  getEnv("EMBED_MODEL", "nomic-embed-text"),
			ChatModel:   chatModel,
			RouteModel:  getEnv("ROUTE_MODEL", chatModel),
			RerankModel: getEnv("RERANK_MODEL", chatModel),
		},
		Retrieval: RetrievalConfig{
			TopKDefault:      getEnvAsInt("TOP_K_DEFAULT", 8),
			TopKMax:          getEnvAsInt("TOP_K_MAX", 200),
			MMRLambda:        getEnvAsFloat("MMR_LAMBDA", 0.75),
			JSONMaxParseSize: getEnvAsInt("JSON_MAX_PARSE_SIZE", 65536),
			RouteTimeout:     time.Duration(getEnvAsInt("ROUTE_TIMEOUT_SECONDS", 12)) * time.Second,
			RerankTimeout:    time.Duration(getEnvAsInt("RERANK_TIMEOUT_SECONDS", 20)) * time.Second,
			RouteCacheTTL:    time.Duration(getEnvAsInt("ROUTE_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Kiwix: KiwixConfig{
			BaseURL: getEnv("KIWIX_BASE_URL", ""),
			Pages:   getEnvAsInt("KIWIX_PAGES", 4),
		},
		Web: WebConfig{
			AllowedHosts: getEnv("WEB_ALLOWED_HOSTS", ""),
			BlockedHosts: getEnv("WEB_BLOCKED_HOSTS", ""),
			UserAgent:    getEnv("WEB_USER_AGENT", "cognihub/1.0"),
		},
		Cache: CacheConfig{
			StatusTTL:  time.Duration(getEnvAsInt("STATUS_CACHE_TTL_SECONDS", 30)) * time.Second,
			StatusSize: getEnvAsInt("STATUS_CACHE_SIZE", 256),
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
