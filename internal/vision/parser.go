package vision

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ecosnap/ecosnap/internal/common"
)

// fenceRe matches a single markdown code fence wrapping the whole reply.
var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\n?\\s*```$")

// cleanMarkdownWrapper strips a code-fence wrapper from content if present.
// The prompt forbids fences, but models add them anyway.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

// parseResponse validates the classifier reply: fence-strip, parse, require
// a string wasteType. No repair beyond fence stripping is attempted; the
// taxonomy validation downstream relies on this strictness. Confidence that
// is missing, non-numeric, or NaN defaults to 0.5 and is always clamped to
// [0,1].
func parseResponse(content string) (Response, error) {
	content = cleanMarkdownWrapper(content)

	var raw struct {
		WasteType  any    `json:"wasteType"`
		Confidence any    `json:"confidence"`
		Reasoning  string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Response{}, fmt.Errorf("%w: %v", common.ErrInvalidResponse, err)
	}

	wasteType, ok := raw.WasteType.(string)
	if !ok || wasteType == "" {
		return Response{}, fmt.Errorf("%w: missing wasteType field", common.ErrInvalidResponse)
	}

	confidence, ok := raw.Confidence.(float64)
	if !ok || math.IsNaN(confidence) {
		confidence = 0.5
	}
	confidence = clamp01(confidence)

	return Response{
		WasteType:  wasteType,
		Confidence: confidence,
		Reasoning:  raw.Reasoning,
	}, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
