package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"topic-studio-backend/internal/types"
)

// Record keys for the profile-scoped state directory. Each key is one JSON
// file, mirroring the per-key records of the browser storage this replaces.
const (
	TopicsKey  = "generated_topics"
	PromptKey  = "prompt_override"
	HandoffKey = "selected_topic"
)

// FileStateStore persists small JSON records in a local data directory.
// Every operation is best-effort by contract: reads that fail for any reason
// report "no value" and failed writes are dropped, so callers never see a
// storage error.
type FileStateStore struct {
	dir string
}

func NewFileStateStore(dir string) *FileStateStore {
	return &FileStateStore{dir: dir}
}

func (f *FileStateStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get unmarshals the record for key into out, reporting whether a usable
// value existed.
func (f *FileStateStore) Get(key string, out any) bool {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false
	}
	return true
}

// Set replaces the record for key. Writes go through a temp file so a
// half-written record is never observed.
func (f *FileStateStore) Set(key string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, f.path(key))
}

// Delete removes the record for key.
func (f *FileStateStore) Delete(key string) {
	_ = os.Remove(f.path(key))
}

// SaveTopics overwrites the cached topic set. Empty sets are never written;
// the record exists only when at least one candidate was produced.
func (f *FileStateStore) SaveTopics(set types.CachedTopicSet) {
	if len(set.Topics) == 0 {
		return
	}
	f.Set(TopicsKey, set)
}

// LoadTopics returns the cached topic set when a well-formed, non-empty
// record exists.
func (f *FileStateStore) LoadTopics() (types.CachedTopicSet, bool) {
	var set types.CachedTopicSet
	if !f.Get(TopicsKey, &set) {
		return types.CachedTopicSet{}, false
	}
	if len(set.Topics) == 0 {
		return types.CachedTopicSet{}, false
	}
	return set, true
}

// ClearTopics deletes the cached topic set. The prompt override is a
// separate record and is left untouched.
func (f *FileStateStore) ClearTopics() {
	f.Delete(TopicsKey)
}

type promptRecord struct {
	Prompt string `json:"prompt"`
}

// SavePrompt stores the last value the user typed into the prompt field.
func (f *FileStateStore) SavePrompt(text string) {
	f.Set(PromptKey, promptRecord{Prompt: text})
}

// LoadPrompt returns the saved prompt override, if one exists.
func (f *FileStateStore) LoadPrompt() (string, bool) {
	var rec promptRecord
	if !f.Get(PromptKey, &rec) {
		return "", false
	}
	return rec.Prompt, true
}

// SaveSelected writes the handoff record the editor page reads on load.
func (f *FileStateStore) SaveSelected(c types.TopicCandidate) {
	f.Set(HandoffKey, c)
}

// LoadSelected returns the handoff record, if one exists.
func (f *FileStateStore) LoadSelected() (types.TopicCandidate, bool) {
	var c types.TopicCandidate
	if !f.Get(HandoffKey, &c) {
		return types.TopicCandidate{}, false
	}
	if c.Title == "" {
		return types.TopicCandidate{}, false
	}
	return c, true
}
