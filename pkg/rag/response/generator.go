package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-knowledge-base-be/internal/constant"
	"ai-knowledge-base-be/pkg/llm"
	"ai-knowledge-base-be/pkg/rag/search"
)

// Generator produces a grounded answer for a question from scored evidence.
type Generator struct {
	llmProvider llm.LLMProvider
	temperature float64
	maxTokens   int
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, temperature float64, maxTokens int, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Generate builds the context block from the evidence in score order and
// asks the model for an answer constrained to it.
func (g *Generator) Generate(ctx context.Context, question string, evidence []search.Evidence) (string, error) {
	contextBlock := buildContextBlock(evidence)

	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.KnowledgeSystemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(constant.KnowledgeUserPromptTemplate, contextBlock, question)},
	}

	g.logger.Printf("[GENERATION] Prompting with %d evidence entries", len(evidence))

	answer, err := g.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(g.temperature),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Printf("[GENERATION] Completion failed: %v", err)
		return "", fmt.Errorf("completion failed: %w", err)
	}

	g.logger.Printf("[GENERATION] Answer length: %d chars", len(answer))
	return answer, nil
}

// buildContextBlock renders each evidence entry with its score so the model
// can cite which parts it used.
func buildContextBlock(evidence []search.Evidence) string {
	parts := make([]string, len(evidence))
	for i, ev := range evidence {
		parts[i] = fmt.Sprintf(constant.ContextEntryFormat, ev.Score, ev.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}
