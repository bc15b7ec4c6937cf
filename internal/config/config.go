package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL       string
	LLMModel         string
	LLMAPIKey        string
	EmbeddingBaseURL string
	EmbeddingModel   string
	DBPath           string
	ManifestPath     string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int
	APIPort          string
	TopK             int
	ScoreThreshold   float32
	LogLevel         slog.Level
	LogFormat        string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up a few levels so binaries run from cmd/ subdirs still find .env
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.groq.com/openai"),
		LLMModel:         getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		DBPath:           getEnv("DB_PATH", "./data/finsight.db"),
		ManifestPath:     getEnv("MANIFEST_PATH", "./manifest.yaml"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "annual-reports"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// The vector size must match the embedding model output exactly; the
	// collection has to be rebuilt if either changes, so it is required
	// rather than defaulted.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	topK, err := strconv.Atoi(getEnv("RETRIEVAL_TOP_K", "10"))
	if err != nil || topK <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_TOP_K must be a positive integer")
	}
	cfg.TopK = topK

	// Qdrant cosine search returns a similarity, so the threshold is a
	// minimum-similarity floor (see internal/vectorstore).
	threshold, err := strconv.ParseFloat(getEnv("RETRIEVAL_SCORE_THRESHOLD", "0.25"), 32)
	if err != nil || threshold < 0 {
		return nil, fmt.Errorf("RETRIEVAL_SCORE_THRESHOLD must be a non-negative number")
	}
	cfg.ScoreThreshold = float32(threshold)

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
