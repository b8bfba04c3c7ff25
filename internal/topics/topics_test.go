package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"topic-studio-backend/internal/types"
)

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name   string
		brand  string
		seed   string
		prompt string
		want   types.GenerationRequest
	}{
		{
			name:  "fields carried verbatim",
			brand: "Acme",
			seed:  "launch",
			want:  types.GenerationRequest{Brand: "Acme", Seed: "launch", Limit: 5},
		},
		{
			name: "blank brand falls back",
			seed: "launch",
			want: types.GenerationRequest{Brand: "My Brand", Seed: "launch", Limit: 5},
		},
		{
			name:  "whitespace brand falls back",
			brand: "   ",
			want:  types.GenerationRequest{Brand: "My Brand", Limit: 5},
		},
		{
			name:   "prompt carried when non-blank",
			brand:  "Acme",
			prompt: "pitch it like a documentary",
			want:   types.GenerationRequest{Brand: "Acme", Limit: 5, Prompt: "pitch it like a documentary"},
		},
		{
			name:   "whitespace prompt omitted",
			brand:  "Acme",
			prompt: "  \n\t ",
			want:   types.GenerationRequest{Brand: "Acme", Limit: 5},
		},
		{
			name: "empty seed allowed",
			want: types.GenerationRequest{Brand: "My Brand", Limit: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRequest(tt.brand, tt.seed, tt.prompt, "My Brand")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "A", DisplayTitle(types.TopicCandidate{Title: "A"}))
	assert.Equal(t, "B!", DisplayTitle(types.TopicCandidate{Title: "A", YTTitle: "B!"}))
	assert.Equal(t, "A", DisplayTitle(types.TopicCandidate{Title: "A", YTTitle: "  "}))
}

func TestDefaultPrompt(t *testing.T) {
	p := DefaultPrompt("Acme")
	assert.Contains(t, p, "Acme")
	assert.NotContains(t, p, "{{brand}}")
}
