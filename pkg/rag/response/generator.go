package response

import (
	"context"
	"strings"
	"time"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/llm"
	"classroom-ai-be/pkg/rag/prompt"
)

// Generator wraps the LLM with the fallbacks a chat turn needs: a failed
// answer becomes the apology, a failed summary becomes the summary fallback.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	trace       logger.ILogger
	timeout     time.Duration
}

// NewGenerator creates a new response generator. trace receives the full
// prompts and may be the same logger as log.
func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger, trace logger.ILogger, timeout time.Duration) *Generator {
	if trace == nil {
		trace = log
	}
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
		trace:       trace,
		timeout:     timeout,
	}
}

// Complete calls the model under the configured timeout and returns its error.
func (g *Generator) Complete(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.trace.Debug("LLM", "Prompt", map[string]interface{}{"messages": messages})

	started := time.Now()
	out, err := g.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	g.trace.Debug("LLM", "Completion", map[string]interface{}{
		"answer":      out,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return strings.TrimSpace(out), nil
}

// Answer never fails: any model error or timeout yields the apology.
func (g *Generator) Answer(ctx context.Context, messages []llm.Message) string {
	out, err := g.Complete(ctx, messages)
	if err != nil {
		g.logger.Error("LLM", "Answer generation failed", map[string]interface{}{"error": err.Error()})
		return constant.ApologyAnswer
	}
	return out
}

// Summarize condenses the opening question of a conversation.
func (g *Generator) Summarize(ctx context.Context, input string) string {
	out, err := g.Complete(ctx, prompt.BuildSummary(input))
	if err != nil {
		g.logger.Warn("LLM", "Summary generation failed", map[string]interface{}{"error": err.Error()})
		return constant.SummaryFallback
	}
	return out
}
