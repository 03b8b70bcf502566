package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePgvector, cfg.VectorDBType)
	assert.Equal(t, []string{"groq", "openai"}, cfg.Providers)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

func TestLoadProviderList(t *testing.T) {
	t.Setenv("LLM_PROVIDERS", " Groq, GEMINI ,openai ")

	cfg := Load()
	assert.Equal(t, []string{"groq", "gemini", "openai"}, cfg.Providers)
}

func TestValidateOK(t *testing.T) {
	cfg := &Config{
		VectorDBType: StorePgvector,
		DatabaseURL:  "postgres://localhost/university_rag",
		GeminiAPIKey: "g",
		GroqAPIKey:   "k",
		Providers:    []string{"groq"},
		ChunkSize:    800,
		ChunkOverlap: 100,
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := &Config{
		VectorDBType: "weaviate",
		Providers:    []string{"groq", "mistral"},
		ChunkSize:    100,
		ChunkOverlap: 200,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY or GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "VECTOR_DB_TYPE")
	assert.Contains(t, err.Error(), `unknown provider "mistral"`)
	assert.Contains(t, err.Error(), "no API key set for any configured provider")
	assert.Contains(t, err.Error(), "CHUNK_OVERLAP")
}

func TestValidateMissingProviderKeys(t *testing.T) {
	cfg := &Config{
		VectorDBType: StoreChromem,
		ChromemPath:  "./data/chromem",
		GeminiAPIKey: "g",
		Providers:    []string{"groq", "openai"},
		ChunkSize:    800,
		ChunkOverlap: 100,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key set for any configured provider")
}

func TestValidateGeminiProviderUsesEmbeddingKey(t *testing.T) {
	cfg := &Config{
		VectorDBType: StoreChromem,
		ChromemPath:  "./data/chromem",
		GeminiAPIKey: "g",
		Providers:    []string{"gemini"},
		ChunkSize:    800,
		ChunkOverlap: 100,
	}
	assert.NoError(t, cfg.Validate())
}
