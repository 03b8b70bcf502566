package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openaiBaseURL = "https://api.openai.com/v1"

	defaultTimeout = 30 * time.Second
)

// ChatAdapter speaks the OpenAI-compatible chat completions protocol.
// Groq and OpenAI share the wire format and differ only in base URL.
type ChatAdapter struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGroq(apiKey, model string) *ChatAdapter {
	return newChatAdapter("groq", groqBaseURL, apiKey, model)
}

func NewOpenAI(apiKey, model string) *ChatAdapter {
	return newChatAdapter("openai", openaiBaseURL, apiKey, model)
}

// NewChatAdapter builds an adapter against an arbitrary OpenAI-compatible
// endpoint. Used by tests and self-hosted deployments.
func NewChatAdapter(name, baseURL, apiKey, model string) *ChatAdapter {
	return newChatAdapter(name, baseURL, apiKey, model)
}

func newChatAdapter(name, baseURL, apiKey, model string) *ChatAdapter {
	return &ChatAdapter{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (a *ChatAdapter) Name() string { return a.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (a *ChatAdapter) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return CompletionResponse{}, NewProviderError(a.name, "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, NewProviderError(a.name, "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, NewProviderError(a.name, "HTTP_ERROR", "request failed", 0, true, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return CompletionResponse{}, NewProviderError(a.name, "READ_ERROR", "failed to read response", httpResp.StatusCode, false, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return CompletionResponse{}, a.errorForStatus(httpResp.StatusCode, respBody)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return CompletionResponse{}, NewProviderError(a.name, "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	if len(parsed.Choices) == 0 {
		return CompletionResponse{}, NewProviderError(a.name, "EMPTY_RESPONSE", "no choices returned", httpResp.StatusCode, false, nil)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return CompletionResponse{}, NewProviderError(a.name, "EMPTY_RESPONSE", "model returned empty text", httpResp.StatusCode, false, nil)
	}

	model := parsed.Model
	if model == "" {
		model = a.model
	}

	return CompletionResponse{
		Text:     text,
		Model:    model,
		Provider: a.name,
		Usage: Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

func (a *ChatAdapter) errorForStatus(status int, body []byte) *ProviderError {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := fmt.Sprintf("unexpected status %d", status)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewProviderError(a.name, "AUTH_ERROR", msg, status, false, nil)
	case status == http.StatusTooManyRequests:
		return NewProviderError(a.name, "RATE_LIMIT", msg, status, true, nil)
	case status >= 500:
		return NewProviderError(a.name, "SERVER_ERROR", msg, status, true, nil)
	default:
		return NewProviderError(a.name, "API_ERROR", msg, status, false, nil)
	}
}

var _ Provider = (*ChatAdapter)(nil)
