package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lherron/archmerge/internal/model"
	"github.com/lherron/archmerge/internal/testutil"
	"github.com/lherron/archmerge/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a store over a temporary database with migrations applied.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.TempDB(t))
}

func sampleWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	m := model.New()
	user, err := m.AddPerson("Accountant", "Books payments")
	require.NoError(t, err)
	sys, err := m.AddSoftwareSystem("Finance system", "")
	require.NoError(t, err)
	sys.AddTags("Internal", "Core")
	sys.Group = "Finance"
	sys.URL = "https://finance.example.com"
	sys.SetProperty("workspace-name", "Acme finance")
	sys.AddPerspective("Security", "Handles payment data", "high")
	sys.Documentation.AddSection(model.Section{Order: 0, Format: model.FormatMarkdown, Filename: "00 Overview.md", Content: "# Overview"})
	sys.Documentation.AddImage(model.Image{Name: "ctx.png", Type: "image/png", Content: "iVBORw0KGgo="})
	ui, err := m.AddContainer(sys, "Web user interface", "Modern web UI", "React")
	require.NoError(t, err)
	_, err = m.AddRelationship(user, ui, "Uses", "HTTPS", model.InteractionSynchronous, "Web")
	require.NoError(t, err)

	return workspace.FromModel("Acme", "Merged landscape", m)
}

func TestWorkspaceStore_SaveAndLoad(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	doc := sampleWorkspace(t)

	rev, err := s.Workspaces.Save(ctx, doc)
	require.NoError(t, err)

	want, err := workspace.CanonicalRev(doc)
	require.NoError(t, err)
	assert.Equal(t, want, rev)

	loaded, err := s.Workspaces.Load(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	loadedRev, err := workspace.CanonicalRev(loaded)
	require.NoError(t, err)
	assert.Equal(t, rev, loadedRev)

	m, err := loaded.ToModel()
	require.NoError(t, err)
	ui := m.ElementWithCanonicalName("Container://Finance system.Web user interface")
	require.NotNil(t, ui)
	assert.Equal(t, "React", ui.Technology)
}

func TestWorkspaceStore_SaveReplaces(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := sampleWorkspace(t)
	firstRev, err := s.Workspaces.Save(ctx, first)
	require.NoError(t, err)

	m := model.New()
	_, err = m.AddPerson("Only", "")
	require.NoError(t, err)
	second := workspace.FromModel("Acme", "Replaced", m)
	secondRev, err := s.Workspaces.Save(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, firstRev, secondRev)

	loaded, err := s.Workspaces.Load(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", loaded.Description)
	assert.Len(t, loaded.Model.Elements, 1)
	assert.Empty(t, loaded.Model.Relationships)

	infos, err := s.Workspaces.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, secondRev, infos[0].Rev)
	assert.Equal(t, 1, infos[0].Elements)
	assert.Equal(t, 0, infos[0].Relationships)

	history, err := s.Workspaces.History(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "workspace.saved", history[1].EventType)

	var payload map[string]interface{}
	require.NotNil(t, history[1].Payload)
	require.NoError(t, json.Unmarshal([]byte(*history[1].Payload), &payload))
	assert.Equal(t, firstRev, payload["previous_rev"])
	assert.Equal(t, secondRev, payload["rev"])
}

func TestWorkspaceStore_List(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	infos, err := s.Workspaces.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	for _, name := range []string{"Zeta", "Alpha"} {
		doc := sampleWorkspace(t)
		doc.Name = name
		_, err := s.Workspaces.Save(ctx, doc)
		require.NoError(t, err)
	}

	infos, err = s.Workspaces.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "Alpha", infos[0].Name)
	assert.Equal(t, "Zeta", infos[1].Name)
	assert.Equal(t, 3, infos[0].Elements)
	assert.Equal(t, 1, infos[0].Relationships)
	assert.NotEmpty(t, infos[0].UUID)
	assert.NotEmpty(t, infos[0].CreatedAt)
}

func TestWorkspaceStore_Delete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Workspaces.Save(ctx, sampleWorkspace(t))
	require.NoError(t, err)
	require.NoError(t, s.Workspaces.Delete(ctx, "Acme"))

	_, err = s.Workspaces.Load(ctx, "Acme")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM elements").Scan(&count))
	assert.Zero(t, count)

	assert.ErrorIs(t, s.Workspaces.Delete(ctx, "Acme"), ErrNotFound)
}

func TestWorkspaceStore_Errors(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Workspaces.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Workspaces.History(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	unnamed := sampleWorkspace(t)
	unnamed.Name = ""
	_, err = s.Workspaces.Save(ctx, unnamed)
	assert.ErrorContains(t, err, "name is required")

	dangling := &workspace.Workspace{
		Name: "Dangling",
		Model: workspace.Model{
			Elements:      []workspace.ElementEntry{{ID: "1", Kind: "Person", Name: "P"}},
			Relationships: []workspace.RelationshipEntry{{Source: "1", Destination: "9"}},
		},
	}
	_, err = s.Workspaces.Save(ctx, dangling)
	require.Error(t, err)

	// The failed save left nothing behind.
	infos, err := s.Workspaces.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
