package topics

import (
	"strings"

	"topic-studio-backend/internal/types"
)

// DefaultLimit is the fixed candidate count requested per fetch.
const DefaultLimit = 5

// defaultPromptTemplate is used to seed the prompt field when the user never
// saved an override. The placeholder is replaced with the current brand.
const defaultPromptTemplate = `You are a content strategist for {{brand}}. Propose short-form video topic ideas that are specific enough to script immediately. For each idea give a punchy title, an optional YouTube-style title, the angle that makes it worth watching, and 3-5 search keywords.`

// BuildRequest assembles a GenerationRequest from the submitted field values.
// It cannot fail: blank brands fall back to fallbackBrand, the seed is taken
// verbatim, and the prompt is carried only when it has non-whitespace content.
func BuildRequest(brand, seed, prompt, fallbackBrand string) types.GenerationRequest {
	req := types.GenerationRequest{
		Brand: brand,
		Seed:  seed,
		Limit: DefaultLimit,
	}
	if strings.TrimSpace(brand) == "" {
		req.Brand = fallbackBrand
	}
	if strings.TrimSpace(prompt) != "" {
		req.Prompt = prompt
	}
	return req
}

// DisplayTitle returns the title to render for a candidate, preferring the
// YouTube-specific title when the backend provided one.
func DisplayTitle(c types.TopicCandidate) string {
	if strings.TrimSpace(c.YTTitle) != "" {
		return c.YTTitle
	}
	return c.Title
}

// DefaultPrompt renders the default prompt template for a brand.
func DefaultPrompt(brand string) string {
	return strings.ReplaceAll(defaultPromptTemplate, "{{brand}}", brand)
}
