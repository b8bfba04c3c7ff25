package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"topic-studio-backend/internal/db"
	"topic-studio-backend/internal/types"
)

// SelectionStore records topic selections in PostgreSQL so other tooling can
// see what was last handed to the editor.
type SelectionStore struct {
	db *db.DB
}

func NewSelectionStore(database *db.DB) *SelectionStore {
	return &SelectionStore{db: database}
}

// Selection is one recorded handoff.
type Selection struct {
	SessionID  string
	Topic      types.TopicCandidate
	SelectedAt time.Time
}

// SaveSelection appends a selection to the log.
func (ss *SelectionStore) SaveSelection(sessionID string, topic types.TopicCandidate) error {
	if topic.Title == "" {
		return fmt.Errorf("topic title is required")
	}

	query := `
		INSERT INTO topic_selections (session_id, title, yt_title, angle, keywords, selected_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := ss.db.Exec(query, sessionID, topic.Title, topic.YTTitle, topic.Angle, pq.Array(topic.Keywords))
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

// LatestSelection returns the most recent selection, or nil when the log is
// empty.
func (ss *SelectionStore) LatestSelection() (*Selection, error) {
	var sel Selection
	var keywords pq.StringArray
	query := `
		SELECT session_id, title, yt_title, angle, keywords, selected_at
		FROM topic_selections
		ORDER BY selected_at DESC
		LIMIT 1
	`

	err := ss.db.QueryRow(query).Scan(
		&sel.SessionID,
		&sel.Topic.Title,
		&sel.Topic.YTTitle,
		&sel.Topic.Angle,
		&keywords,
		&sel.SelectedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get latest selection: %w", err)
	}

	sel.Topic.Keywords = []string(keywords)
	return &sel, nil
}
