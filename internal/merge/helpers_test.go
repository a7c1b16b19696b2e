package merge

import (
	"testing"

	"github.com/lherron/archmerge/internal/model"
	"github.com/stretchr/testify/require"
)

func person(t *testing.T, m *model.Model, name string, tags ...string) *model.Element {
	t.Helper()
	e, err := m.AddPerson(name, "")
	require.NoError(t, err)
	e.AddTags(tags...)
	return e
}

func system(t *testing.T, m *model.Model, name, description string, tags ...string) *model.Element {
	t.Helper()
	e, err := m.AddSoftwareSystem(name, description)
	require.NoError(t, err)
	e.AddTags(tags...)
	return e
}

func container(t *testing.T, m *model.Model, parent *model.Element, name, description string, tags ...string) *model.Element {
	t.Helper()
	e, err := m.AddContainer(parent, name, description, "")
	require.NoError(t, err)
	e.AddTags(tags...)
	return e
}

func component(t *testing.T, m *model.Model, parent *model.Element, name string) *model.Element {
	t.Helper()
	e, err := m.AddComponent(parent, name, "", "Go")
	require.NoError(t, err)
	return e
}

func relate(t *testing.T, m *model.Model, from, to *model.Element, description string, tags ...string) *model.Relationship {
	t.Helper()
	r, err := m.AddRelationship(from, to, description, "", model.InteractionUnspecified, tags...)
	require.NoError(t, err)
	return r
}

func canonicalNames(m *model.Model) []string {
	var names []string
	for _, e := range m.Elements() {
		names = append(names, e.CanonicalName())
	}
	return names
}

// relationshipKeys renders relationships as "source -> destination: description"
func relationshipKeys(m *model.Model) []string {
	var keys []string
	for _, r := range m.Relationships() {
		keys = append(keys, m.Element(r.SourceID).CanonicalName()+" -> "+
			m.Element(r.DestinationID).CanonicalName()+": "+r.Description)
	}
	return keys
}
