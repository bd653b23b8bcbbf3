package vision

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ecosnap/ecosnap/internal/common"
	"github.com/ecosnap/ecosnap/internal/imaging"
	"github.com/ecosnap/ecosnap/internal/model"
	"github.com/ecosnap/ecosnap/internal/service"
)

// Outcome is the normalized result of a classification attempt. It is
// always structurally valid: every failure mode collapses to UNKNOWN with a
// rationale encoding the failure reason.
type Outcome struct {
	Category   model.WasteCategory
	Confidence float64
	Reasoning  string
}

// Failure rationale text. The orchestrator inspects outcomes for the
// "API Key" marker to distinguish blocking configuration failures from
// retryable service failures.
const (
	missingKeyReasoning = "API Key for the classifier is not configured. Please contact support or check setup."
	invalidKeyReasoning = "Invalid classifier API Key. Please check your configuration."
	serviceReasoning    = "Failed to classify waste. The AI model might be unavailable or returned an unexpected response."
)

// Classifier wraps a provider client so callers always receive a valid
// Outcome; it never returns an error.
type Classifier struct {
	cfg         Config
	prompt      string
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions

	initOnce  sync.Once
	client    Client
	clientErr error
}

// NewClassifier creates a vision classifier. A missing API key is not an
// error here: classification with no key yields a configuration outcome, so
// the rest of the application stays usable.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	if !SupportedProvider(cfg.Provider) {
		return nil, common.NewUserError("unsupported vision provider: "+cfg.Provider, common.ErrInvalidConfig)
	}
	return newClassifier(cfg, logger), nil
}

func newClassifier(cfg Config, logger *slog.Logger) *Classifier {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Classifier{
		cfg:         cfg,
		prompt:      buildPrompt(),
		logger:      logger,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts:   retryOpts,
	}
}

// NewClassifierWithClient creates a classifier over an existing provider
// client. Used by tests and by callers that manage the client themselves.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	c := newClassifier(cfg, logger)
	c.initOnce.Do(func() { c.client = client })
	return c
}

// Classify submits the image to the remote classifier and normalizes the
// result. All failures produce a structurally valid Outcome.
func (c *Classifier) Classify(ctx context.Context, image imaging.TransportImage) Outcome {
	if image.Empty() {
		return Outcome{
			Category:  model.CategoryUnknown,
			Reasoning: "Error: no image data to classify.",
		}
	}

	if c.cfg.APIKey == "" {
		c.logger.Error("classifier API key is not configured; classification cannot proceed")
		return Outcome{
			Category:  model.CategoryUnknown,
			Reasoning: missingKeyReasoning,
		}
	}

	c.initOnce.Do(func() {
		c.client, c.clientErr = NewClient(ctx, c.cfg)
	})
	if c.clientErr != nil {
		c.logger.Error("failed to initialize vision client", "error", c.clientErr)
		return c.failureOutcome(c.clientErr)
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return c.failureOutcome(err)
	}

	var content string
	err := common.WithRetry(ctx, func() error {
		var classifyErr error
		content, classifyErr = c.client.Classify(ctx, image, c.prompt)
		return classifyErr
	}, c.retryOpts)
	if err != nil {
		c.logger.Error("classification request failed", "error", err)
		return c.failureOutcome(err)
	}

	resp, err := parseResponse(content)
	if err != nil {
		c.logger.Error("classifier returned an unparseable response",
			"error", err,
			"content", content)
		return c.failureOutcome(err)
	}

	return Outcome{
		Category:   model.ParseCategory(resp.WasteType),
		Confidence: resp.Confidence,
		Reasoning:  resp.Reasoning,
	}
}

// Close releases the rate limiter and, when the provider client holds
// resources, the client.
func (c *Classifier) Close() error {
	c.rateLimiter.Close()
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// failureOutcome maps an error to the UNKNOWN outcome whose rationale the
// caller can inspect.
func (c *Classifier) failureOutcome(err error) Outcome {
	var reasoning string
	if strings.Contains(strings.ToLower(err.Error()), "api key") {
		reasoning = invalidKeyReasoning
	} else {
		reasoning = "Error: " + serviceReasoning + " (" + err.Error() + ")"
	}

	return Outcome{
		Category:  model.CategoryUnknown,
		Reasoning: reasoning,
	}
}
