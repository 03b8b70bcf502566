package llm

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrNoProviders = errors.New("no providers configured")

// ProviderStats counts calls and failures per provider.
type ProviderStats struct {
	Calls  int `json:"calls"`
	Errors int `json:"errors"`
}

// Chain tries providers in order until one answers.
type Chain struct {
	providers []Provider
	logger    *zap.Logger

	mu    sync.Mutex
	stats map[string]ProviderStats
}

func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger,
		stats:     make(map[string]ProviderStats),
	}
}

// Complete returns the first successful response. When every provider
// fails it returns a *GenerationError carrying the per-provider errors.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if len(c.providers) == 0 {
		return CompletionResponse{}, ErrNoProviders
	}

	var attempts []error
	for _, p := range c.providers {
		resp, err := p.Complete(ctx, req)
		c.record(p.Name(), err)
		if err == nil {
			return resp, nil
		}
		c.logger.Warn("provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.Error(err))
		attempts = append(attempts, err)
	}

	return CompletionResponse{}, &GenerationError{Attempts: attempts}
}

func (c *Chain) record(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats[name]
	s.Calls++
	if err != nil {
		s.Errors++
	}
	c.stats[name] = s
}

// Stats returns a copy of the per-provider counters.
func (c *Chain) Stats() map[string]ProviderStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]ProviderStats, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

// Providers returns the configured provider names in fallback order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}
