package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Event is one row of the event log
type Event struct {
	ID           int64   `json:"id" yaml:"id"`
	Timestamp    string  `json:"timestamp" yaml:"timestamp"`
	ResourceType string  `json:"resource_type" yaml:"resource_type"`
	ResourceUUID *string `json:"resource_uuid,omitempty" yaml:"resource_uuid,omitempty"`
	EventType    string  `json:"event_type" yaml:"event_type"`
	Payload      *string `json:"payload,omitempty" yaml:"payload,omitempty"` // JSON
}

// Writer handles writing events to the event log
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new event writer
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// LogEvent writes an event to the event log
func (w *Writer) LogEvent(ctx context.Context, tx *sql.Tx, event *Event) error {
	query := `
		INSERT INTO event_log (resource_type, resource_uuid, event_type, payload)
		VALUES (?, ?, ?, ?)
	`

	executor := w.getExecutor(tx)
	_, err := executor.ExecContext(ctx, query, event.ResourceType, event.ResourceUUID, event.EventType, event.Payload)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// WorkspaceSaved describes a saved workspace
type WorkspaceSaved struct {
	Name          string `json:"name"`
	Rev           string `json:"rev"`
	PreviousRev   string `json:"previous_rev,omitempty"`
	Elements      int    `json:"elements"`
	Relationships int    `json:"relationships"`
}

// LogWorkspaceSaved logs a workspace.saved event
func (w *Writer) LogWorkspaceSaved(ctx context.Context, tx *sql.Tx, workspaceUUID string, saved WorkspaceSaved) error {
	payload, err := json.Marshal(saved)
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(ctx, tx, &Event{
		ResourceType: "workspace",
		ResourceUUID: &workspaceUUID,
		EventType:    "workspace.saved",
		Payload:      &payloadStr,
	})
}

// LogWorkspaceDeleted logs a workspace.deleted event
func (w *Writer) LogWorkspaceDeleted(ctx context.Context, tx *sql.Tx, workspaceUUID, name string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return err
	}

	payloadStr := string(payload)
	return w.LogEvent(ctx, tx, &Event{
		ResourceType: "workspace",
		ResourceUUID: &workspaceUUID,
		EventType:    "workspace.deleted",
		Payload:      &payloadStr,
	})
}

// List returns the events of one resource, oldest first
func (w *Writer) List(ctx context.Context, resourceUUID string) ([]Event, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT id, timestamp, resource_type, resource_uuid, event_type, payload
		FROM event_log WHERE resource_uuid = ? ORDER BY id
	`, resourceUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ResourceType, &e.ResourceUUID, &e.EventType, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// getExecutor returns the appropriate executor (tx or db)
func (w *Writer) getExecutor(tx *sql.Tx) interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
} {
	if tx != nil {
		return tx
	}
	return w.db
}
