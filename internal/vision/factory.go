package vision

import (
	"context"
	"fmt"
	"strings"
)

// NewClient creates a raw vision client based on the provided configuration.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newGeminiClient(ctx, cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Provider)
	}
}

// SupportedProvider reports whether name is a known provider.
func SupportedProvider(name string) bool {
	switch strings.ToLower(name) {
	case "", "gemini", "openai":
		return true
	default:
		return false
	}
}
