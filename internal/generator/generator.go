package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"topic-studio-backend/internal/topics"
	"topic-studio-backend/internal/types"
)

// PromptSpec mirrors prompts/topics.yaml.
type PromptSpec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// TopicGenerator backs the local generation endpoint with an LLM call shaped
// by a YAML prompt spec.
type TopicGenerator struct {
	spec   PromptSpec
	client *openai.Client
	model  string
}

func Load(path string, client *openai.Client, model string) (*TopicGenerator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec PromptSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, err
	}
	return &TopicGenerator{spec: spec, client: client, model: model}, nil
}

// Generate asks the model for candidate topics, honoring the request's limit
// and optional prompt override. The user prompt override replaces the default
// template, not the system instructions.
func (g *TopicGenerator) Generate(ctx context.Context, req types.GenerationRequest) ([]types.TopicCandidate, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = topics.DefaultLimit
	}
	instructions := req.Prompt
	if strings.TrimSpace(instructions) == "" {
		instructions = topics.DefaultPrompt(req.Brand)
	}

	var b strings.Builder
	b.WriteString(instructions)
	fmt.Fprintf(&b, "\n\nBrand: %s\n", req.Brand)
	if strings.TrimSpace(req.Seed) != "" {
		fmt.Fprintf(&b, "Seed idea or theme: %s\n", req.Seed)
	}
	fmt.Fprintf(&b, "Produce at most %d ideas.\n", limit)
	b.WriteString(`Output ONLY a JSON object of the form {"topics":[{"title":"...","yt_title":"...","angle":"...","keywords":["..."]}]}.`)

	styleT := g.spec.Style.Temperature
	if styleT <= 0 {
		styleT = 0.8
	}
	maxTok := g.spec.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 900
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: styleT,
		MaxTokens:   maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.spec.System},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices")
	}

	out, err := extractTopics(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// extractTopics parses the model output, tolerating prose or code fences
// around the JSON object by falling back to the outermost brace pair.
func extractTopics(raw string) ([]types.TopicCandidate, error) {
	var out types.GenerationResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		first := strings.Index(raw, "{")
		last := strings.LastIndex(raw, "}")
		if first < 0 || last <= first {
			return nil, err
		}
		if err2 := json.Unmarshal([]byte(raw[first:last+1]), &out); err2 != nil {
			return nil, err
		}
	}
	return out.Topics, nil
}
