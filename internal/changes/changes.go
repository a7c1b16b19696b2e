// Package changes compares two workspaces element by element. Elements are
// matched by canonical name and relationships by source, destination and
// description, so documents with different ids compare equal when their
// content matches.
package changes

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lherron/archmerge/internal/model"
	"github.com/lherron/archmerge/internal/workspace"
)

// Entity names used in Change.Entity
const (
	EntityElement      = "element"
	EntityRelationship = "relationship"
)

// Operation names used in Change.Op
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Change is one difference between two workspaces
type Change struct {
	Entity string `json:"entity" yaml:"entity"`
	Op     string `json:"op" yaml:"op"`
	Key    string `json:"key" yaml:"key"`
}

// OpCounts tracks counts by operation type.
type OpCounts struct {
	Add     int `json:"add" yaml:"add"`
	Replace int `json:"replace" yaml:"replace"`
	Remove  int `json:"remove" yaml:"remove"`
}

// Counts tracks operation counts by entity type.
type Counts struct {
	Elements      OpCounts `json:"elements" yaml:"elements"`
	Relationships OpCounts `json:"relationships" yaml:"relationships"`
}

// Summary is the result of Compare
type Summary struct {
	Summary string   `json:"summary" yaml:"summary"`
	Counts  Counts   `json:"counts" yaml:"counts"`
	Changes []Change `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Empty reports whether the workspaces had the same content
func (s *Summary) Empty() bool {
	return len(s.Changes) == 0
}

// Compare lists what changes turn base into target. Changes are ordered
// elements first, then by key.
func Compare(base, target *workspace.Workspace) (*Summary, error) {
	baseElements, baseRelationships, err := index(base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	targetElements, targetRelationships, err := index(target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	s := &Summary{}
	s.Changes = append(s.Changes, diffMap(EntityElement, baseElements, targetElements)...)
	s.Changes = append(s.Changes, diffMap(EntityRelationship, baseRelationships, targetRelationships)...)

	for _, c := range s.Changes {
		s.Counts.add(c)
	}
	s.Summary = formatText(s.Counts)
	return s, nil
}

// index keys the elements and relationships of ws by identity
func index(ws *workspace.Workspace) (map[string]interface{}, map[string]interface{}, error) {
	m, err := ws.ToModel()
	if err != nil {
		return nil, nil, err
	}
	doc := workspace.FromModel(ws.Name, ws.Description, m)

	elements := make(map[string]interface{}, len(doc.Model.Elements))
	for _, entry := range doc.Model.Elements {
		key := m.Element(entry.ID).CanonicalName()
		// ids differ between documents and the parent is part of the key
		entry.ID, entry.Parent = "", ""
		elements[key] = entry
	}

	relationships := make(map[string]interface{}, len(doc.Model.Relationships))
	for _, r := range m.Relationships() {
		key := relationshipKey(m, r)
		relationships[key] = struct {
			Technology       string
			InteractionStyle model.InteractionStyle
			Tags             []string
		}{r.Technology, r.InteractionStyle, r.Tags}
	}
	return elements, relationships, nil
}

func relationshipKey(m *model.Model, r *model.Relationship) string {
	return m.Element(r.SourceID).CanonicalName() + " -> " +
		m.Element(r.DestinationID).CanonicalName() + ": " + r.Description
}

// diffMap computes changes for a keyed collection.
func diffMap(entity string, base, target map[string]interface{}) []Change {
	allKeys := make(map[string]bool, len(base)+len(target))
	for k := range base {
		allKeys[k] = true
	}
	for k := range target {
		allKeys[k] = true
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []Change
	for _, key := range keys {
		baseVal, inBase := base[key]
		targetVal, inTarget := target[key]

		switch {
		case !inBase:
			changes = append(changes, Change{Entity: entity, Op: OpAdd, Key: key})
		case !inTarget:
			changes = append(changes, Change{Entity: entity, Op: OpRemove, Key: key})
		case !deepEqual(baseVal, targetVal):
			changes = append(changes, Change{Entity: entity, Op: OpReplace, Key: key})
		}
	}
	return changes
}

// deepEqual compares two values by JSON encoding.
func deepEqual(a, b interface{}) bool {
	aJSON, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}

func (c *Counts) add(change Change) {
	opCounts := &c.Elements
	if change.Entity == EntityRelationship {
		opCounts = &c.Relationships
	}

	switch change.Op {
	case OpAdd:
		opCounts.Add++
	case OpReplace:
		opCounts.Replace++
	case OpRemove:
		opCounts.Remove++
	}
}

// formatText generates a one-line summary.
func formatText(counts Counts) string {
	var parts []string
	if text := formatEntityText(EntityElement, counts.Elements); text != "" {
		parts = append(parts, text)
	}
	if text := formatEntityText(EntityRelationship, counts.Relationships); text != "" {
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "No changes."
	}
	return strings.Join(parts, ", ") + "."
}

// formatEntityText formats counts for a single entity type.
func formatEntityText(entity string, counts OpCounts) string {
	var ops []string

	if counts.Add > 0 {
		ops = append(ops, fmt.Sprintf("%d %s added", counts.Add, pluralize(entity, counts.Add)))
	}
	if counts.Replace > 0 {
		ops = append(ops, fmt.Sprintf("%d %s updated", counts.Replace, pluralize(entity, counts.Replace)))
	}
	if counts.Remove > 0 {
		ops = append(ops, fmt.Sprintf("%d %s removed", counts.Remove, pluralize(entity, counts.Remove)))
	}

	return strings.Join(ops, ", ")
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
