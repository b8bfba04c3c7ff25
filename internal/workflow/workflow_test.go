package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topic-studio-backend/internal/ideation"
	"topic-studio-backend/internal/store"
	"topic-studio-backend/internal/types"
)

type fakeSource struct {
	topics    []types.TopicCandidate
	err       error
	notified  []types.TopicCandidate
	notifyErr error
	gotBase   string
	gotReq    types.GenerationRequest
}

func (f *fakeSource) Generate(_ context.Context, base string, req types.GenerationRequest) ([]types.TopicCandidate, error) {
	f.gotBase = base
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.topics, nil
}

func (f *fakeSource) NotifySelection(_ context.Context, cand types.TopicCandidate) error {
	f.notified = append(f.notified, cand)
	return f.notifyErr
}

func newTestWorkflow(t *testing.T, src *fakeSource) (*Workflow, *store.FileStateStore) {
	t.Helper()
	state := store.NewFileStateStore(t.TempDir())
	w := New(src, state, store.NewSessionStore(), "My Brand", "/notebook")
	w.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return w, state
}

func TestFetchRendersAndCaches(t *testing.T) {
	src := &fakeSource{topics: []types.TopicCandidate{{Title: "A"}, {Title: "B"}}}
	w, state := newTestWorkflow(t, src)

	view, err := w.Fetch(context.Background(), "s1", types.GenerateRequest{Brand: "Acme", Seed: "launch"})
	require.NoError(t, err)
	assert.Len(t, view.Topics, 2)
	assert.Equal(t, "Acme", view.Brand)
	assert.Equal(t, "Acme", src.gotReq.Brand)
	assert.Equal(t, 5, src.gotReq.Limit)

	set, ok := state.LoadTopics()
	require.True(t, ok)
	assert.Equal(t, []types.TopicCandidate{{Title: "A"}, {Title: "B"}}, set.Topics)
	assert.Equal(t, "Acme", set.Brand)
	assert.Equal(t, "launch", set.Seed)
	assert.Equal(t, w.now(), set.SavedAt)
}

func TestFetchBlankBrandUsesFallback(t *testing.T) {
	src := &fakeSource{topics: []types.TopicCandidate{{Title: "A"}}}
	w, _ := newTestWorkflow(t, src)

	view, err := w.Fetch(context.Background(), "s1", types.GenerateRequest{Seed: "launch"})
	require.NoError(t, err)
	assert.Equal(t, "My Brand", view.Brand)
	assert.Equal(t, "My Brand", src.gotReq.Brand)
}

func TestFailedFetchLeavesCacheAndViewUntouched(t *testing.T) {
	src := &fakeSource{topics: []types.TopicCandidate{{Title: "old"}}}
	w, state := newTestWorkflow(t, src)
	_, err := w.Fetch(context.Background(), "s1", types.GenerateRequest{Brand: "Acme"})
	require.NoError(t, err)

	src.err = ideation.ErrNoCandidates
	_, err = w.Fetch(context.Background(), "s1", types.GenerateRequest{Brand: "Acme"})
	assert.ErrorIs(t, err, ideation.ErrNoCandidates)

	set, ok := state.LoadTopics()
	require.True(t, ok)
	assert.Equal(t, "old", set.Topics[0].Title)
	view := w.Restore("s1")
	require.Len(t, view.Topics, 1)
	assert.Equal(t, "old", view.Topics[0].Title)
}

func TestRestorePopulatesEmptySession(t *testing.T) {
	src := &fakeSource{}
	w, state := newTestWorkflow(t, src)
	state.SaveTopics(types.CachedTopicSet{
		Topics:  []types.TopicCandidate{{Title: "A"}},
		Brand:   "Acme",
		Seed:    "launch",
		SavedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	view := w.Restore("fresh")
	require.Len(t, view.Topics, 1)
	assert.Equal(t, "Acme", view.Brand)
	assert.Equal(t, "launch", view.Seed)
	require.NotNil(t, view.SavedAt)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *view.SavedAt)
}

func TestRestoreIsNoOpWhenSessionRendersTopics(t *testing.T) {
	src := &fakeSource{topics: []types.TopicCandidate{{Title: "fresh"}}}
	w, state := newTestWorkflow(t, src)
	_, err := w.Fetch(context.Background(), "s1", types.GenerateRequest{Brand: "Acme"})
	require.NoError(t, err)

	// A different record in storage must not clobber the rendered list.
	state.Set(store.TopicsKey, types.CachedTopicSet{Topics: []types.TopicCandidate{{Title: "stale"}}})

	view := w.Restore("s1")
	require.Len(t, view.Topics, 1)
	assert.Equal(t, "fresh", view.Topics[0].Title)
}

func TestRestoreWithNoCacheIsSilent(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeSource{})
	view := w.Restore("s1")
	assert.Empty(t, view.Topics)
}

func TestClearRemovesCacheAndView(t *testing.T) {
	src := &fakeSource{topics: []types.TopicCandidate{{Title: "A"}}}
	w, state := newTestWorkflow(t, src)
	_, err := w.Fetch(context.Background(), "s1", types.GenerateRequest{Brand: "Acme"})
	require.NoError(t, err)

	w.Clear("s1")

	_, ok := state.LoadTopics()
	assert.False(t, ok)
	assert.Empty(t, w.Restore("s1").Topics)
	assert.Empty(t, w.Restore("fresh").Topics)
}

func TestSelectWritesHandoffBeforeNotify(t *testing.T) {
	src := &fakeSource{}
	w, state := newTestWorkflow(t, src)

	var handoffPresentAtDispatch bool
	w.dispatch = func(fn func()) {
		_, handoffPresentAtDispatch = state.LoadSelected()
		fn()
	}

	cand := types.TopicCandidate{Title: "A", Angle: "x"}
	editor := w.Select(cand)

	assert.Equal(t, "/notebook", editor)
	assert.True(t, handoffPresentAtDispatch, "handoff record must be written before the notification is dispatched")
	require.Len(t, src.notified, 1)
	assert.Equal(t, cand, src.notified[0])

	got, ok := w.Selected()
	require.True(t, ok)
	assert.Equal(t, cand, got)
}

func TestSelectSwallowsNotifyFailure(t *testing.T) {
	src := &fakeSource{notifyErr: errors.New("backend down")}
	w, _ := newTestWorkflow(t, src)
	w.dispatch = func(fn func()) { fn() }

	editor := w.Select(types.TopicCandidate{Title: "A"})
	assert.Equal(t, "/notebook", editor)
	got, ok := w.Selected()
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
}

func TestPromptFallsBackToDefaultTemplate(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeSource{})

	p := w.Prompt("Acme")
	assert.Contains(t, p, "Acme")

	p = w.Prompt("  ")
	assert.Contains(t, p, "My Brand")
}

func TestPromptReturnsSavedOverride(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeSource{})
	w.SavePrompt("my custom template")
	assert.Equal(t, "my custom template", w.Prompt("Acme"))
}
