package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/vauassist/university-rag/internal/config"
	"github.com/vauassist/university-rag/internal/db"
	"github.com/vauassist/university-rag/internal/embedding"
	apphttp "github.com/vauassist/university-rag/internal/http"
	"github.com/vauassist/university-rag/internal/llm"
	"github.com/vauassist/university-rag/internal/logging"
	"github.com/vauassist/university-rag/internal/rag"
	chromemstore "github.com/vauassist/university-rag/internal/store/chromem"
	pgstore "github.com/vauassist/university-rag/internal/store/pgvector"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("failed to init genai client", zap.Error(err))
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open vector store", zap.Error(err))
	}
	defer store.Close()

	embedder := embedding.NewGemini(genaiClient)
	chain := buildChain(cfg, genaiClient, logger)
	retriever := rag.NewRetriever(embedder, store, logger)
	ragService := rag.NewService(retriever, store, chain, logger)

	h := apphttp.NewHandler(ragService, chain, cfg.RequestTimeout, logger)
	router := apphttp.NewRouter(h)
	handler := corsMiddleware(router)

	addr := ":" + cfg.Port
	logger.Info("API listening",
		zap.String("addr", addr),
		zap.String("store", cfg.VectorDBType),
		zap.Strings("providers", chain.Providers()))

	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config) (rag.VectorStore, error) {
	switch cfg.VectorDBType {
	case config.StoreChromem:
		return chromemstore.New(cfg.ChromemPath)
	case config.StorePgvector:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pgstore.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.VectorDBType)
	}
}

func buildChain(cfg *config.Config, genaiClient *genai.Client, logger *zap.Logger) *llm.Chain {
	var providers []llm.Provider
	for _, name := range cfg.Providers {
		switch name {
		case "groq":
			if cfg.GroqAPIKey == "" {
				logger.Warn("skipping provider without API key", zap.String("provider", name))
				continue
			}
			providers = append(providers, llm.NewGroq(cfg.GroqAPIKey, cfg.GroqModel))
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				logger.Warn("skipping provider without API key", zap.String("provider", name))
				continue
			}
			providers = append(providers, llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel))
		case "gemini":
			providers = append(providers, llm.NewGemini(genaiClient, cfg.GeminiModel))
		}
	}
	return llm.NewChain(logger, providers...)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "http://localhost:3000" || origin == "http://127.0.0.1:3000" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
