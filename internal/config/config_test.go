package config

import (
	"log/slog"
	"os"
	"testing"
)

var configEnvVars = []string{
	"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME",
	"DB_PATH", "MANIFEST_PATH",
	"QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
	"API_PORT", "RETRIEVAL_TOP_K", "RETRIEVAL_SCORE_THRESHOLD",
	"LOG_LEVEL", "LOG_FORMAT",
}

// resetEnv clears every config variable and restores the original values
// when the test finishes.
func resetEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string)
	for _, key := range configEnvVars {
		original[key] = os.Getenv(key)
		_ = os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for key, value := range original {
			if value != "" {
				_ = os.Setenv(key, value)
			} else {
				_ = os.Unsetenv(key)
			}
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	resetEnv(t)
	_ = os.Setenv("QDRANT_VECTOR_SIZE", "384")
	_ = os.Setenv("DB_PATH", t.TempDir()+"/finsight.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLMModel != "llama-3.3-70b-versatile" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.QdrantCollection != "annual-reports" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.QdrantVectorSize != 384 {
		t.Errorf("QdrantVectorSize = %d", cfg.QdrantVectorSize)
	}
	if cfg.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.TopK)
	}
	if cfg.ScoreThreshold != 0.25 {
		t.Errorf("ScoreThreshold = %v, want 0.25", cfg.ScoreThreshold)
	}
	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestLoad_VectorSizeRequired(t *testing.T) {
	resetEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when QDRANT_VECTOR_SIZE is unset")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric vector size", "QDRANT_VECTOR_SIZE", "many"},
		{"negative vector size", "QDRANT_VECTOR_SIZE", "-1"},
		{"zero top k", "RETRIEVAL_TOP_K", "0"},
		{"negative threshold", "RETRIEVAL_SCORE_THRESHOLD", "-0.5"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv(t)
			_ = os.Setenv("QDRANT_VECTOR_SIZE", "384")
			_ = os.Setenv("DB_PATH", t.TempDir()+"/finsight.db")
			_ = os.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	resetEnv(t)
	_ = os.Setenv("QDRANT_VECTOR_SIZE", "1536")
	_ = os.Setenv("DB_PATH", t.TempDir()+"/finsight.db")
	_ = os.Setenv("RETRIEVAL_TOP_K", "5")
	_ = os.Setenv("RETRIEVAL_SCORE_THRESHOLD", "0.4")
	_ = os.Setenv("LOG_LEVEL", "debug")
	_ = os.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.ScoreThreshold != 0.4 {
		t.Errorf("ScoreThreshold = %v, want 0.4", cfg.ScoreThreshold)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}
