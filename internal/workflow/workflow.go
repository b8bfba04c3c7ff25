package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"topic-studio-backend/internal/store"
	"topic-studio-backend/internal/topics"
	"topic-studio-backend/internal/types"
)

// TopicSource is the upstream transport used for generation and the
// best-effort selection notification.
type TopicSource interface {
	Generate(ctx context.Context, baseURL string, req types.GenerationRequest) ([]types.TopicCandidate, error)
	NotifySelection(ctx context.Context, cand types.TopicCandidate) error
}

// Workflow drives the topic ideation flow: request building, the upstream
// fetch, cache snapshot/restore, the prompt override and the editor handoff.
type Workflow struct {
	source   TopicSource
	state    *store.FileStateStore
	sessions *store.SessionStore
	brand    string
	editor   string
	now      func() time.Time
	// dispatch runs fire-and-forget work; swapped out in tests to observe
	// ordering deterministically.
	dispatch func(func())
}

func New(source TopicSource, state *store.FileStateStore, sessions *store.SessionStore, fallbackBrand, editorPath string) *Workflow {
	return &Workflow{
		source:   source,
		state:    state,
		sessions: sessions,
		brand:    fallbackBrand,
		editor:   editorPath,
		now:      time.Now,
		dispatch: func(fn func()) { go fn() },
	}
}

// Fetch builds a generation request from the submitted fields, drives the
// upstream transport and, on success, renders the result into the session
// view and snapshots it to the cache. Failed fetches leave both the view and
// the cache exactly as they were.
func (w *Workflow) Fetch(ctx context.Context, sessionID string, in types.GenerateRequest) (store.SessionView, error) {
	req := topics.BuildRequest(in.Brand, in.Seed, in.Prompt, w.brand)
	list, err := w.source.Generate(ctx, in.BaseURL, req)
	if err != nil {
		return store.SessionView{}, err
	}
	now := w.now()
	view := store.SessionView{Topics: list, Brand: req.Brand, Seed: req.Seed, SavedAt: &now}
	w.sessions.SetView(sessionID, view)
	w.state.SaveTopics(types.CachedTopicSet{Topics: list, Brand: req.Brand, Seed: req.Seed, SavedAt: now})
	return view, nil
}

// Restore repopulates the session view from the cache, but only when the
// rendered list is currently empty; a freshly fetched result is never
// clobbered. Absent or unusable cache records are a silent no-op.
func (w *Workflow) Restore(sessionID string) store.SessionView {
	if w.sessions.HasTopics(sessionID) {
		return w.sessions.GetView(sessionID)
	}
	set, ok := w.state.LoadTopics()
	if !ok {
		return w.sessions.GetView(sessionID)
	}
	saved := set.SavedAt
	view := store.SessionView{Topics: set.Topics, Brand: set.Brand, Seed: set.Seed, SavedAt: &saved}
	w.sessions.SetView(sessionID, view)
	return view
}

// Clear deletes the cached record and empties the rendered list. The prompt
// override is a separate record and survives.
func (w *Workflow) Clear(sessionID string) {
	w.state.ClearTopics()
	w.sessions.ClearView(sessionID)
}

// Select hands the chosen candidate to the editor. The local handoff record
// is written first (it is the authoritative channel), the backend
// notification is dispatched without being awaited, and the editor path is
// returned for navigation.
func (w *Workflow) Select(cand types.TopicCandidate) string {
	w.state.SaveSelected(cand)
	w.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.source.NotifySelection(ctx, cand); err != nil {
			log.Printf("[handoff] selection notify failed: %v", err)
		}
	})
	return w.editor
}

// Selected returns the current handoff record for the editor page.
func (w *Workflow) Selected() (types.TopicCandidate, bool) {
	return w.state.LoadSelected()
}

// Prompt returns the persisted prompt override, or the default template
// rendered for the given brand when none was ever saved.
func (w *Workflow) Prompt(brand string) string {
	if p, ok := w.state.LoadPrompt(); ok {
		return p
	}
	b := strings.TrimSpace(brand)
	if b == "" {
		b = w.brand
	}
	return topics.DefaultPrompt(b)
}

// SavePrompt persists the prompt field value as typed.
func (w *Workflow) SavePrompt(text string) {
	w.state.SavePrompt(text)
}
