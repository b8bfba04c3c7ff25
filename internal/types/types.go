package types

import "time"

// GenerationRequest is the payload sent to a topic generation backend.
type GenerationRequest struct {
	Brand  string `json:"brand"`
	Seed   string `json:"seed"`
	Limit  int    `json:"limit"`
	Prompt string `json:"prompt,omitempty"`
}

// TopicCandidate is one generated content idea. Only Title is guaranteed
// non-empty; YTTitle, when present, is preferred for display.
type TopicCandidate struct {
	Title    string   `json:"title"`
	YTTitle  string   `json:"yt_title,omitempty"`
	Angle    string   `json:"angle,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// GenerationResponse is the shape both the local API and the webhook return.
type GenerationResponse struct {
	Topics []TopicCandidate `json:"topics"`
}

// CachedTopicSet is the persisted record of the last successful fetch.
type CachedTopicSet struct {
	Topics  []TopicCandidate `json:"topics"`
	Brand   string           `json:"brand"`
	Seed    string           `json:"seed"`
	SavedAt time.Time        `json:"saved_at"`
}

// GenerateRequest is what the UI submits to start a fetch.
type GenerateRequest struct {
	Brand   string `json:"brand"`
	Seed    string `json:"seed"`
	Prompt  string `json:"prompt,omitempty"`
	BaseURL string `json:"baseUrl,omitempty"`
}

// TopicsView is the rendered candidate list returned to the UI.
type TopicsView struct {
	Topics  []TopicCandidate `json:"topics"`
	Brand   string           `json:"brand,omitempty"`
	Seed    string           `json:"seed,omitempty"`
	SavedAt *time.Time       `json:"savedAt,omitempty"`
}

// SelectResponse tells the UI where to navigate after a handoff.
type SelectResponse struct {
	Editor string `json:"editor"`
}

type PromptPayload struct {
	Prompt string `json:"prompt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
