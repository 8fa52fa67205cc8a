package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("INDEX_STORAGE", "badger")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 10, cfg.Rag.TopK)
	assert.Equal(t, "badger", cfg.Rag.IndexStorage)
	assert.Equal(t, 30*time.Second, cfg.Ai.LLMTimeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RAG_TOP_K", "ten")
	assert.Equal(t, 7, getEnvAsInt("RAG_TOP_K", 7))
}
