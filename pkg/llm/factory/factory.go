package factory

import (
	"fmt"

	"classroom-ai-be/pkg/llm"
	"classroom-ai-be/pkg/llm/ollama"
	"classroom-ai-be/pkg/llm/openai"
)

type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
