package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	p, err = NewLLMProvider(Config{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o", MaxTokens: 4096})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewLLMProvider(Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Config{Provider: "gemini"})
	assert.Error(t, err)
}
