package factory

import (
	"fmt"

	"ai-knowledge-base-be/pkg/llm"
	"ai-knowledge-base-be/pkg/llm/azure"
	"ai-knowledge-base-be/pkg/llm/ollama"
)

// Config carries the provider-specific settings; only the fields for the
// selected provider need to be set.
type Config struct {
	Provider string
	Model    string

	OllamaBaseURL string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "azure":
		return azure.NewAzureProvider(
			cfg.AzureEndpoint,
			cfg.AzureAPIKey,
			cfg.AzureDeployment,
			cfg.AzureAPIVersion,
		), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
