// Package llm answers follow-up questions about a dataset profile.
package llm

import (
	"context"

	"csvinsights/internal/config"
)

// Generator produces a text completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New returns the generator selected by cfg.Provider
func New(cfg *config.AIConfig) Generator {
	if cfg.Provider == config.ProviderGemini {
		return NewGeminiClient(cfg)
	}
	return MockGenerator{}
}
