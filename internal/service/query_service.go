package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ai-knowledge-base-be/internal/constant"
	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/llm"
	"ai-knowledge-base-be/pkg/rag/response"
	"ai-knowledge-base-be/pkg/rag/search"
	"ai-knowledge-base-be/pkg/vectorindex"
)

const (
	defaultMaxResults  = 5
	maxAllowedResults  = 10
	sourceSnippetRunes = 200
)

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
}

type queryService struct {
	uowFactory         unitofwork.RepositoryFactory
	searchOrchestrator *search.Orchestrator
	responseGenerator  *response.Generator
	llmLogger          *log.Logger
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	index vectorindex.Searcher,
	llmProvider llm.LLMProvider,
	temperature float64,
	maxTokens int,
) IQueryService {
	llmLogger := initLLMLogger()

	return &queryService{
		uowFactory:         uowFactory,
		searchOrchestrator: search.NewOrchestrator(index, llmLogger),
		responseGenerator:  response.NewGenerator(llmProvider, temperature, maxTokens, llmLogger),
		llmLogger:          llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (c *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperror.NewValidation("question cannot be empty")
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}
	if maxResults < 1 || maxResults > maxAllowedResults {
		return nil, apperror.NewValidation("max_results must be between 1 and 10")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	c.llmLogger.Printf("[QUERY] %q (max_results=%d)", question, maxResults)

	evidence, hits, err := c.searchOrchestrator.Execute(ctx, uow, question, maxResults)
	if err != nil {
		return nil, apperror.NewRetrieval("knowledge base search failed", err)
	}

	// Nothing matched at all. This is an answer, not an error.
	if hits == 0 {
		return &dto.QueryResponse{
			Question: req.Question,
			Answer:   constant.NoRelevantInformationAnswer,
			Sources:  []dto.QuerySourceDTO{},
		}, nil
	}

	answer, err := c.responseGenerator.Generate(ctx, question, evidence)
	if err != nil {
		return nil, apperror.NewRetrieval("answer generation failed", err)
	}

	sources := make([]dto.QuerySourceDTO, 0, len(evidence))
	for _, ev := range evidence {
		sources = append(sources, dto.QuerySourceDTO{
			ItemId:         ev.Item.Id,
			Content:        snippet(ev.Chunk.Text),
			SourceKind:     ev.Item.SourceKind,
			Url:            ev.Item.Url,
			RelevanceScore: ev.Score,
		})
	}

	return &dto.QueryResponse{
		Question: req.Question,
		Answer:   answer,
		Sources:  sources,
	}, nil
}

// snippet shortens chunk text for the sources list, leaving full content to
// the item endpoints.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= sourceSnippetRunes {
		return text
	}
	return string(runes[:sourceSnippetRunes]) + "..."
}
