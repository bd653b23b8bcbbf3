// Package vision submits images to a remote visual classifier and
// normalizes its responses into the waste taxonomy.
package vision

import (
	"context"
	"time"

	"github.com/ecosnap/ecosnap/internal/imaging"
)

// Client defines the interface for visual classifier providers.
type Client interface {
	// Classify submits an encoded image plus the taxonomy instruction and
	// returns the provider's raw text reply.
	Classify(ctx context.Context, image imaging.TransportImage, prompt string) (string, error)
}

// Response is the parsed and validated classifier reply.
type Response struct {
	WasteType  string
	Confidence float64
	Reasoning  string
}

// Config holds configuration for the vision classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
