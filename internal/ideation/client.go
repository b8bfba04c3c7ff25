package ideation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"topic-studio-backend/internal/topics"
	"topic-studio-backend/internal/types"
)

// Mode identifies which backend a base URL resolves to.
type Mode int

const (
	// ModeLocalAPI targets the local generation endpoint.
	ModeLocalAPI Mode = iota
	// ModeWebhook targets an external automation webhook.
	ModeWebhook
)

const (
	generatePath = "/generate-topics"
	webhookPath  = "/webhook-test/topics-ideation"
	selectedPath = "/set-selected-topic"
)

// ErrNoCandidates reports a successful response that carried zero topics.
// It is distinct from transport failures so callers can message it as such.
var ErrNoCandidates = errors.New("no candidates returned")

// Client delivers generation requests to whichever backend the base URL
// points at. It keeps a very small surface area tailored to our needs.
type Client struct {
	httpClient *http.Client
	localBase  string
	localPort  string
	maxTopics  int
}

// NewClient builds a client whose local API lives on the given port. Base
// URLs on that port (host localhost or 127.0.0.1) use the local JSON API;
// everything else is treated as an external webhook.
func NewClient(localPort string) *Client {
	return &Client{
		// No client-side timeout; request contexts bound each call.
		httpClient: &http.Client{},
		localBase:  "http://localhost:" + localPort,
		localPort:  localPort,
		maxTopics:  topics.DefaultLimit,
	}
}

// Resolve normalizes a user-entered base URL and decides the transport mode.
// Blank input falls back to the local base; trailing slashes are stripped.
func (c *Client) Resolve(base string) (string, Mode) {
	b := strings.TrimSpace(base)
	if b == "" {
		b = c.localBase
	}
	b = strings.TrimRight(b, "/")
	u, err := url.Parse(b)
	if err != nil {
		return b, ModeWebhook
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	if (host == "localhost" || host == "127.0.0.1") && port == c.localPort {
		return b, ModeLocalAPI
	}
	return b, ModeWebhook
}

// Generate delivers the request and returns the parsed candidate list,
// truncated to the fixed limit. In local mode an HTTP 405 on the POST is
// retried exactly once as a GET with the fields as query parameters; webhook
// mode never falls back.
func (c *Client) Generate(ctx context.Context, base string, req types.GenerationRequest) ([]types.TopicCandidate, error) {
	b, mode := c.Resolve(base)
	var resp *http.Response
	var err error
	if mode == ModeLocalAPI {
		resp, err = c.postJSON(ctx, b+generatePath, req)
		if err != nil {
			return nil, fmt.Errorf("generation request failed: %w", err)
		}
		if resp.StatusCode == http.StatusMethodNotAllowed {
			resp.Body.Close()
			resp, err = c.getGenerate(ctx, b, req)
			if err != nil {
				return nil, fmt.Errorf("generation request failed: %w", err)
			}
		}
	} else {
		resp, err = c.postJSON(ctx, b+webhookPath, req)
		if err != nil {
			return nil, fmt.Errorf("webhook request failed: %w", err)
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out types.GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid generation response: %w", err)
	}
	if len(out.Topics) == 0 {
		return nil, ErrNoCandidates
	}
	if len(out.Topics) > c.maxTopics {
		out.Topics = out.Topics[:c.maxTopics]
	}
	return out.Topics, nil
}

// NotifySelection posts the selected candidate to the local backend so it
// knows what the editor will open with. The response body is ignored.
func (c *Client) NotifySelection(ctx context.Context, cand types.TopicCandidate) error {
	resp, err := c.postJSON(ctx, c.localBase+selectedPath, cand)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("selection notify failed with status %d", resp.StatusCode)
	}
	return nil
}

// ---- Helpers ----

func (c *Client) postJSON(ctx context.Context, target string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// getGenerate reproduces the generation request as query parameters for
// backends that only accept GET on the generation endpoint.
func (c *Client) getGenerate(ctx context.Context, base string, r types.GenerationRequest) (*http.Response, error) {
	qv := url.Values{}
	qv.Set("brand", r.Brand)
	qv.Set("seed", r.Seed)
	qv.Set("limit", strconv.Itoa(r.Limit))
	if r.Prompt != "" {
		qv.Set("prompt", r.Prompt)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+generatePath+"?"+qv.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}
