package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ecosnap/ecosnap/internal/common"
	"github.com/ecosnap/ecosnap/internal/imaging"
)

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// newGeminiClient creates a new Gemini vision client.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, common.ErrMissingAPIKey
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	temperature := float32(cfg.Temperature)
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := int32(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 300
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      genai.Ptr(temperature),
		MaxOutputTokens:  genai.Ptr(maxTokens),
		ResponseMIMEType: "application/json",
	}

	return &geminiClient{
		client: client,
		model:  model,
	}, nil
}

// Classify submits the image with the taxonomy instruction and returns the
// raw reply text.
func (c *geminiClient) Classify(ctx context.Context, image imaging.TransportImage, prompt string) (string, error) {
	format := strings.TrimPrefix(image.MIME, "image/")

	resp, err := c.model.GenerateContent(ctx,
		genai.ImageData(format, image.Data),
		genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty gemini response", common.ErrInvalidResponse)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("%w: unexpected gemini part type", common.ErrInvalidResponse)
	}

	return string(text), nil
}

// Close releases the underlying API client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}
