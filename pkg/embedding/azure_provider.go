package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AzureOpenAIProvider implements EmbeddingProvider against an Azure OpenAI
// embeddings deployment (e.g., text-embedding-ada-002).
type AzureOpenAIProvider struct {
	Endpoint   string
	ApiKey     string
	Deployment string
	ApiVersion string
	Client     *http.Client
}

func NewAzureOpenAIProvider(endpoint, apiKey, deployment, apiVersion string) EmbeddingProvider {
	if apiVersion == "" {
		apiVersion = "2023-05-15"
	}
	return &AzureOpenAIProvider{
		Endpoint:   endpoint,
		ApiKey:     apiKey,
		Deployment: deployment,
		ApiVersion: apiVersion,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type azureEmbeddingRequest struct {
	Input string `json:"input"`
}

type azureEmbeddingData struct {
	Embedding []float32 `json:"embedding"`
}

type azureEmbeddingResponse struct {
	Data []azureEmbeddingData `json:"data"`
}

func (p *AzureOpenAIProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// Azure OpenAI has no task-type notion; the parameter exists for
	// interface compatibility.
	if p.Endpoint == "" || p.ApiKey == "" {
		return nil, fmt.Errorf("azure openai credentials not configured")
	}

	reqBody := azureEmbeddingRequest{Input: text}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/openai/deployments/%s/embeddings?api-version=%s",
		p.Endpoint, p.Deployment, p.ApiVersion,
	)

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure embedding request failed: %w", err)
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azure embedding error: status %d, body %s", res.StatusCode, string(resBytes))
	}

	var azureResp azureEmbeddingResponse
	if err := json.Unmarshal(resBytes, &azureResp); err != nil {
		return nil, err
	}
	if len(azureResp.Data) == 0 {
		return nil, fmt.Errorf("azure embedding response contained no data")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: azureResp.Data[0].Embedding,
		},
	}, nil
}
