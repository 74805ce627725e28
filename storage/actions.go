package storage

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	timeLayout = "2006-01-02 15:04:05"

	// PreviewLength is how many characters of slot content are kept
	PreviewLength = 50
)

// Action kinds, matching slots.ChangeKind names
const (
	KindCopy       = "copy"
	KindPaste      = "paste"
	KindPasteEmpty = "paste_empty"
	KindReset      = "reset"
)

// Action is one logged slot action
type Action struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Kind           string    `json:"kind"`
	Slot           int       `json:"slot"`
	CharacterCount int       `json:"characterCount"`
	Preview        string    `json:"preview"`
}

// NewAction builds an action record, cutting content down to a preview
func NewAction(kind string, slot int, content string, at time.Time) *Action {
	return &Action{
		Timestamp:      at,
		Kind:           kind,
		Slot:           slot,
		CharacterCount: utf8.RuneCountInString(content),
		Preview:        preview(content),
	}
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= PreviewLength {
		return s
	}
	return string([]rune(s)[:PreviewLength])
}

// SaveAction saves an action to the database
func (db *DB) SaveAction(a *Action) error {
	query := `
		INSERT INTO actions (timestamp, kind, slot, character_count, preview)
		VALUES (?, ?, ?, ?, ?)
	`

	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	result, err := db.conn.Exec(query,
		a.Timestamp.UTC().Format(timeLayout), a.Kind, a.Slot, a.CharacterCount, a.Preview,
	)
	if err != nil {
		return fmt.Errorf("failed to save action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	a.ID = id
	return nil
}

// GetActions retrieves actions with pagination, newest first
func (db *DB) GetActions(limit, offset int) ([]Action, error) {
	query := `
		SELECT id, timestamp, kind, slot, character_count, preview
		FROM actions
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		var ts string

		err := rows.Scan(&a.ID, &ts, &a.Kind, &a.Slot, &a.CharacterCount, &a.Preview)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}

		a.Timestamp, err = time.ParseInLocation(timeLayout, ts, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse action timestamp %q: %w", ts, err)
		}

		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// DeleteAction deletes an action by ID
func (db *DB) DeleteAction(id int64) error {
	query := `DELETE FROM actions WHERE id = ?`

	result, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("action not found")
	}

	return nil
}

// GetActionCount returns the total number of actions
func (db *DB) GetActionCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM actions").Scan(&count)
	return count, err
}
