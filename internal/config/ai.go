package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported answer providers
const (
	ProviderMock   = "mock"
	ProviderGemini = "gemini"
)

// DefaultRetryDelays is the backoff schedule for rate limited LLM calls
var DefaultRetryDelays = []time.Duration{
	800 * time.Millisecond,
	1500 * time.Millisecond,
	3000 * time.Millisecond,
	6000 * time.Millisecond,
	12000 * time.Millisecond,
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Provider    string          `json:"provider"`
	APIKey      string          `json:"-"` // Never serialize
	BaseURL     string          `json:"baseUrl"`
	Model       string          `json:"model"`
	TimeoutMS   int             `json:"timeoutMs"`
	RetryDelays []time.Duration `json:"retryDelays"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() (*AIConfig, error) {
	cfg := &AIConfig{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		BaseURL:     getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		TimeoutMS:   30000,
		RetryDelays: DefaultRetryDelays,
	}

	cfg.Provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if cfg.Provider == "" {
		cfg.Provider = ProviderMock
		if cfg.APIKey != "" {
			cfg.Provider = ProviderGemini
		}
	}
	if cfg.Provider != ProviderMock && cfg.Provider != ProviderGemini {
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}

	if v := os.Getenv("LLM_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT_MS %q", v)
		}
		cfg.TimeoutMS = ms
	}
	if v := os.Getenv("LLM_RETRY_DELAYS_MS"); v != "" {
		delays, err := ParseDelays(v)
		if err != nil {
			return nil, err
		}
		cfg.RetryDelays = delays
	}
	return cfg, nil
}

// IsConfigured reports whether the selected provider can be called
func (c *AIConfig) IsConfigured() bool {
	switch c.Provider {
	case ProviderMock:
		return true
	case ProviderGemini:
		return c.APIKey != ""
	}
	return false
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

// ParseDelays parses a comma separated list of millisecond delays
func ParseDelays(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ms, err := strconv.Atoi(part)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid retry delay %q", part)
		}
		out = append(out, time.Duration(ms)*time.Millisecond)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("retry delays cannot be empty")
	}
	return out, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
