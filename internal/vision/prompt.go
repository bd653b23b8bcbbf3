package vision

import (
	"fmt"
	"strings"

	"github.com/ecosnap/ecosnap/internal/model"
)

// buildPrompt constructs the instruction sent with every image: the fixed
// taxonomy and a strict JSON output contract with no markdown fencing.
func buildPrompt() string {
	names := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		names = append(names, string(c))
	}
	categories := strings.Join(names, ", ")

	return fmt.Sprintf(`You are an expert waste classification system. Analyze the provided image and identify the primary type of waste visible.
Respond ONLY with a JSON object matching this exact structure:
{
  "wasteType": "CATEGORY_NAME",
  "confidence": 0.0,
  "reasoning": "Brief explanation of why this category was chosen, or why it's uncertain."
}
- "wasteType" MUST be one of these exact values: %s.
- "confidence" MUST be a float between 0.0 (uncertain) and 1.0 (very certain).
- "reasoning" should be a concise explanation.

If the image does not clearly show waste, is ambiguous, or features multiple distinct waste types that are hard to separate, use "%s" for wasteType, set confidence appropriately low (e.g., < 0.5), and explain the ambiguity in reasoning. Focus on the most prominent single piece of waste if multiple are present.
Do not include any text outside of the JSON object. Do not use markdown code fences.
`, categories, model.CategoryUnknown)
}
