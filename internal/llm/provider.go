package llm

import "context"

// CompletionRequest is a single chat-completion call, already prompted.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// CompletionResponse is the unified response shape across providers,
// so a fallback answer is indistinguishable from a primary one.
type CompletionResponse struct {
	Text     string
	Model    string
	Provider string
	Usage    Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is one chat-completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// ProviderError reports a failure of a single provider call.
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// GenerationError means every configured provider failed.
type GenerationError struct {
	Attempts []error
}

func (e *GenerationError) Error() string {
	msg := "all providers failed to generate an answer"
	for _, a := range e.Attempts {
		msg += "; " + a.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() []error { return e.Attempts }
