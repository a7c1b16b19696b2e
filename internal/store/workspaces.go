package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lherron/archmerge/internal/events"
	"github.com/lherron/archmerge/internal/workspace"
)

// ErrNotFound is returned when no workspace has the requested name
var ErrNotFound = errors.New("workspace not found")

// WorkspaceStore handles workspace persistence operations.
type WorkspaceStore struct {
	store *Store
}

// Info summarises a stored workspace
type Info struct {
	UUID          string `json:"uuid" yaml:"uuid"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Rev           string `json:"rev" yaml:"rev"`
	Elements      int    `json:"elements" yaml:"elements"`
	Relationships int    `json:"relationships" yaml:"relationships"`
	CreatedAt     string `json:"created_at" yaml:"created_at"`
	UpdatedAt     string `json:"updated_at" yaml:"updated_at"`
}

// Save stores doc under doc.Name, replacing whatever was stored under that name,
// and returns the canonical rev of the saved content.
func (ws *WorkspaceStore) Save(ctx context.Context, doc *workspace.Workspace) (string, error) {
	if doc.Name == "" {
		return "", fmt.Errorf("workspace name is required")
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}
	rev, err := workspace.CanonicalRev(doc)
	if err != nil {
		return "", err
	}

	err = ws.store.withTx(ctx, func(tx *sql.Tx, ew *events.Writer) error {
		var workspaceUUID, previousRev string
		err := tx.QueryRowContext(ctx, "SELECT uuid, rev FROM workspaces WHERE name = ?", doc.Name).
			Scan(&workspaceUUID, &previousRev)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			workspaceUUID = uuid.New().String()
			previousRev = ""
			_, err = tx.ExecContext(ctx, `
				INSERT INTO workspaces (uuid, name, description, rev) VALUES (?, ?, ?, ?)
			`, workspaceUUID, doc.Name, doc.Description, rev)
			if err != nil {
				return fmt.Errorf("failed to create workspace: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up workspace: %w", err)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE workspaces
				SET description = ?, rev = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')
				WHERE uuid = ?
			`, doc.Description, rev, workspaceUUID)
			if err != nil {
				return fmt.Errorf("failed to update workspace: %w", err)
			}
			if err := deleteContent(ctx, tx, workspaceUUID); err != nil {
				return err
			}
		}

		if err := insertElements(ctx, tx, workspaceUUID, doc.Model.Elements); err != nil {
			return err
		}
		if err := insertRelationships(ctx, tx, workspaceUUID, doc.Model.Relationships); err != nil {
			return err
		}

		return ew.LogWorkspaceSaved(ctx, tx, workspaceUUID, events.WorkspaceSaved{
			Name:          doc.Name,
			Rev:           rev,
			PreviousRev:   previousRev,
			Elements:      len(doc.Model.Elements),
			Relationships: len(doc.Model.Relationships),
		})
	})
	if err != nil {
		return "", err
	}
	return rev, nil
}

func deleteContent(ctx context.Context, tx *sql.Tx, workspaceUUID string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM relationships WHERE workspace_uuid = ?", workspaceUUID); err != nil {
		return fmt.Errorf("failed to delete relationships: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM elements WHERE workspace_uuid = ?", workspaceUUID); err != nil {
		return fmt.Errorf("failed to delete elements: %w", err)
	}
	return nil
}

func insertElements(ctx context.Context, tx *sql.Tx, workspaceUUID string, elements []workspace.ElementEntry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (uuid, workspace_uuid, id, position, kind, name, description, technology,
			parent_id, group_name, url, tags, properties, perspectives, documentation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare element insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range elements {
		tags, err := jsonColumn(e.Tags, "[]")
		if err != nil {
			return err
		}
		properties, err := jsonColumn(e.Properties, "{}")
		if err != nil {
			return err
		}
		perspectives, err := jsonColumn(e.Perspectives, "[]")
		if err != nil {
			return err
		}
		var documentation *string
		if e.Documentation != nil {
			doc, err := jsonColumn(e.Documentation, "")
			if err != nil {
				return err
			}
			documentation = &doc
		}

		_, err = stmt.ExecContext(ctx, uuid.New().String(), workspaceUUID, e.ID, i, e.Kind, e.Name,
			e.Description, e.Technology, e.Parent, e.Group, e.URL, tags, properties, perspectives, documentation)
		if err != nil {
			return fmt.Errorf("failed to insert element %q: %w", e.ID, err)
		}
	}
	return nil
}

func insertRelationships(ctx context.Context, tx *sql.Tx, workspaceUUID string, relationships []workspace.RelationshipEntry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO relationships (uuid, workspace_uuid, id, position, source_id, destination_id,
			description, technology, interaction_style, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare relationship insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range relationships {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("r%d", i+1)
		}
		tags, err := jsonColumn(r.Tags, "[]")
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx, uuid.New().String(), workspaceUUID, id, i, r.Source, r.Destination,
			r.Description, r.Technology, r.InteractionStyle, tags)
		if err != nil {
			return fmt.Errorf("failed to insert relationship %q: %w", id, err)
		}
	}
	return nil
}

// Load reads the workspace stored under name
func (ws *WorkspaceStore) Load(ctx context.Context, name string) (*workspace.Workspace, error) {
	conn := ws.store.db

	var workspaceUUID string
	doc := &workspace.Workspace{}
	err := conn.QueryRowContext(ctx, "SELECT uuid, name, description FROM workspaces WHERE name = ?", name).
		Scan(&workspaceUUID, &doc.Name, &doc.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if doc.Model.Elements, err = loadElements(ctx, conn.DB, workspaceUUID); err != nil {
		return nil, err
	}
	if doc.Model.Relationships, err = loadRelationships(ctx, conn.DB, workspaceUUID); err != nil {
		return nil, err
	}
	return doc, nil
}

func loadElements(ctx context.Context, conn *sql.DB, workspaceUUID string) ([]workspace.ElementEntry, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT id, kind, name, description, technology, parent_id, group_name, url,
			tags, properties, perspectives, documentation
		FROM elements WHERE workspace_uuid = ? ORDER BY position
	`, workspaceUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	var elements []workspace.ElementEntry
	for rows.Next() {
		var (
			e                              workspace.ElementEntry
			tags, properties, perspectives string
			documentation                  sql.NullString
		)
		err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.Description, &e.Technology, &e.Parent, &e.Group, &e.URL,
			&tags, &properties, &perspectives, &documentation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan element: %w", err)
		}

		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("element %q: invalid tags: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(properties), &e.Properties); err != nil {
			return nil, fmt.Errorf("element %q: invalid properties: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(perspectives), &e.Perspectives); err != nil {
			return nil, fmt.Errorf("element %q: invalid perspectives: %w", e.ID, err)
		}
		if documentation.Valid {
			e.Documentation = &workspace.Documentation{}
			if err := json.Unmarshal([]byte(documentation.String), e.Documentation); err != nil {
				return nil, fmt.Errorf("element %q: invalid documentation: %w", e.ID, err)
			}
		}

		if len(e.Tags) == 0 {
			e.Tags = nil
		}
		if len(e.Properties) == 0 {
			e.Properties = nil
		}
		if len(e.Perspectives) == 0 {
			e.Perspectives = nil
		}
		elements = append(elements, e)
	}
	return elements, rows.Err()
}

func loadRelationships(ctx context.Context, conn *sql.DB, workspaceUUID string) ([]workspace.RelationshipEntry, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT id, source_id, destination_id, description, technology, interaction_style, tags
		FROM relationships WHERE workspace_uuid = ? ORDER BY position
	`, workspaceUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	var relationships []workspace.RelationshipEntry
	for rows.Next() {
		var (
			r    workspace.RelationshipEntry
			tags string
		)
		err := rows.Scan(&r.ID, &r.Source, &r.Destination, &r.Description, &r.Technology, &r.InteractionStyle, &tags)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("relationship %q: invalid tags: %w", r.ID, err)
		}
		if len(r.Tags) == 0 {
			r.Tags = nil
		}
		relationships = append(relationships, r)
	}
	return relationships, rows.Err()
}

// List returns every stored workspace ordered by name
func (ws *WorkspaceStore) List(ctx context.Context) ([]Info, error) {
	rows, err := ws.store.db.QueryContext(ctx, `
		SELECT w.uuid, w.name, w.description, w.rev, w.created_at, w.updated_at,
			(SELECT COUNT(*) FROM elements e WHERE e.workspace_uuid = w.uuid),
			(SELECT COUNT(*) FROM relationships r WHERE r.workspace_uuid = w.uuid)
		FROM workspaces w ORDER BY w.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var result []Info
	for rows.Next() {
		var info Info
		err := rows.Scan(&info.UUID, &info.Name, &info.Description, &info.Rev, &info.CreatedAt, &info.UpdatedAt,
			&info.Elements, &info.Relationships)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		result = append(result, info)
	}
	return result, rows.Err()
}

// Delete removes the workspace stored under name
func (ws *WorkspaceStore) Delete(ctx context.Context, name string) error {
	return ws.store.withTx(ctx, func(tx *sql.Tx, ew *events.Writer) error {
		var workspaceUUID string
		err := tx.QueryRowContext(ctx, "SELECT uuid FROM workspaces WHERE name = ?", name).Scan(&workspaceUUID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("failed to look up workspace: %w", err)
		}

		if err := deleteContent(ctx, tx, workspaceUUID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM workspaces WHERE uuid = ?", workspaceUUID); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
		return ew.LogWorkspaceDeleted(ctx, tx, workspaceUUID, name)
	})
}

// History returns the event log of the workspace stored under name
func (ws *WorkspaceStore) History(ctx context.Context, name string) ([]events.Event, error) {
	var workspaceUUID string
	err := ws.store.db.QueryRowContext(ctx, "SELECT uuid FROM workspaces WHERE name = ?", name).Scan(&workspaceUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return events.NewWriter(ws.store.db.DB).List(ctx, workspaceUUID)
}

// jsonColumn encodes v for a JSON text column, using empty when v is nil or empty
func jsonColumn(v interface{}, empty string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	if s := string(data); s != "null" {
		return s, nil
	}
	return empty, nil
}
