package rag

import (
	"context"
	"strings"

	wl "github.com/abadojack/whatlanggo"
	"go.uber.org/zap"

	"github.com/vauassist/university-rag/internal/llm"
	"github.com/vauassist/university-rag/internal/prompt"
)

const (
	defaultTemperature = 0.7
	maxAnswerTokens    = 1000

	noMatchAnswer = "I couldn't find anything about that in the indexed university material. " +
		"Try rephrasing the question or removing the faculty filter."
)

// Service runs the full ask pipeline: retrieve, prompt, generate, cite.
type Service struct {
	retriever  *Retriever
	store      VectorStore
	completion CompletionClient
	logger     *zap.Logger
}

func NewService(retriever *Retriever, store VectorStore, completion CompletionClient, logger *zap.Logger) *Service {
	return &Service{
		retriever:  retriever,
		store:      store,
		completion: completion,
		logger:     logger,
	}
}

func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	q := strings.TrimSpace(req.Question)
	if q == "" {
		return nil, ErrEmptyQuestion
	}

	lang := req.Lang
	if lang == "" || lang == "auto" {
		lang = detectLang(q)
	}

	var filter Filter
	if req.Faculty != nil {
		filter.Faculty = *req.Faculty
	}

	results, err := s.retriever.Retrieve(ctx, q, req.TopK, filter)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &AskResponse{
			Answer:   noMatchAnswer,
			Language: lang,
			Sources:  []SourceRef{},
		}, nil
	}

	sources := make([]prompt.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, prompt.Source{
			Title:   r.Title,
			URL:     r.SourceURL,
			Content: r.Content,
		})
	}

	userPrompt, used := prompt.BuildUserPrompt(q, sources)

	resp, err := s.completion.Complete(ctx, llm.CompletionRequest{
		System:      prompt.System(lang),
		Prompt:      userPrompt,
		Temperature: clampTemperature(req.Temperature),
		MaxTokens:   maxAnswerTokens,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("answer generated",
		zap.String("provider", resp.Provider),
		zap.String("model", resp.Model),
		zap.Int("sources", used),
		zap.Int("totalTokens", resp.Usage.TotalTokens))

	return &AskResponse{
		Answer:   resp.Text,
		Language: lang,
		Provider: resp.Provider,
		Model:    resp.Model,
		Sources:  citations(results[:used]),
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// DocumentCount reports how many chunks are indexed.
func (s *Service) DocumentCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// citations deduplicates by source URL, keeping the order of first
// appearance among the chunks that went into context.
func citations(used []QueryResult) []SourceRef {
	seen := make(map[string]bool, len(used))
	refs := make([]SourceRef, 0, len(used))
	for _, r := range used {
		if r.SourceURL == "" || seen[r.SourceURL] {
			continue
		}
		seen[r.SourceURL] = true
		refs = append(refs, SourceRef{
			Title:     r.Title,
			SourceURL: r.SourceURL,
			Faculty:   r.Faculty,
			Score:     r.Score,
		})
	}
	return refs
}

func clampTemperature(t *float64) float64 {
	if t == nil {
		return defaultTemperature
	}
	switch {
	case *t < 0:
		return 0
	case *t > 2:
		return 2
	default:
		return *t
	}
}

func detectLang(s string) string {
	info := wl.Detect(s)
	switch info.Lang {
	case wl.Tam:
		return "ta"
	case wl.Sin:
		return "si"
	default:
		return "en"
	}
}
