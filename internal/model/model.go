// Package model defines the architecture model that workspaces carry and that
// merge reads from and writes into.
//
// A Model owns its elements and relationships. Elements refer to their parent by
// ID, relationships refer to their endpoints by ID; nothing holds pointers across
// models. Every element gets a canonical name at creation time
// ("SoftwareSystem://Name", "Container://System.Container", ...) and the model
// keeps an index on it, so no two elements in one model share a canonical name.
//
// A Model is not safe for concurrent mutation. Lock and Unlock provide an
// exclusive section for callers (such as merge) that need one; other methods do
// not lock.
package model

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
)

// Model is an element/relationship graph with a canonical-name index
type Model struct {
	mu sync.Mutex

	elements      map[string]*Element
	order         []string
	byCanonical   map[string]string
	relationships []*Relationship
	nextID        int
}

// New creates an empty model
func New() *Model {
	return &Model{
		elements:    make(map[string]*Element),
		byCanonical: make(map[string]string),
	}
}

// Lock acquires exclusive write access to the model
func (m *Model) Lock() {
	m.mu.Lock()
}

// Unlock releases the lock taken by Lock
func (m *Model) Unlock() {
	m.mu.Unlock()
}

// AddPerson adds a top-level person
func (m *Model) AddPerson(name, description string) (*Element, error) {
	return m.addElement(KindPerson, nil, name, description, "")
}

// AddSoftwareSystem adds a top-level software system
func (m *Model) AddSoftwareSystem(name, description string) (*Element, error) {
	return m.addElement(KindSoftwareSystem, nil, name, description, "")
}

// AddCustomElement adds a top-level custom element
func (m *Model) AddCustomElement(name, description string) (*Element, error) {
	return m.addElement(KindCustomElement, nil, name, description, "")
}

// AddDeploymentNode adds a top-level deployment node
func (m *Model) AddDeploymentNode(name, description, technology string) (*Element, error) {
	return m.addElement(KindDeploymentNode, nil, name, description, technology)
}

// AddContainer adds a container to a software system
func (m *Model) AddContainer(parent *Element, name, description, technology string) (*Element, error) {
	return m.addElement(KindContainer, parent, name, description, technology)
}

// AddComponent adds a component to a container
func (m *Model) AddComponent(parent *Element, name, description, technology string) (*Element, error) {
	return m.addElement(KindComponent, parent, name, description, technology)
}

func (m *Model) addElement(kind Kind, parent *Element, name, description, technology string) (*Element, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	path := []string{name}
	parentID := ""
	if want := kind.ParentKind(); want != "" {
		if parent == nil {
			return nil, fmt.Errorf("%w: %s %q needs a %s parent", ErrInvalidParent, kind, name, want)
		}
		if !m.owns(parent) {
			return nil, fmt.Errorf("%w: parent %s", ErrForeignElement, parent.CanonicalName())
		}
		if parent.Kind != want {
			return nil, fmt.Errorf("%w: %s %q cannot be a child of %s", ErrInvalidParent, kind, name, parent.CanonicalName())
		}
		path = append(m.path(parent), name)
		parentID = parent.ID
	}

	canonical := canonicalName(kind, path)
	if _, exists := m.byCanonical[canonical]; exists {
		return nil, &NameConflictError{Kind: kind, Name: name, CanonicalName: canonical}
	}

	e := &Element{
		ID:            m.allocateID(),
		Kind:          kind,
		Name:          name,
		Description:   description,
		Technology:    technology,
		Properties:    make(map[string]string),
		ParentID:      parentID,
		Documentation: &Documentation{},
		canonicalName: canonical,
	}
	m.elements[e.ID] = e
	m.order = append(m.order, e.ID)
	m.byCanonical[canonical] = e.ID
	return e, nil
}

// AddRelationship adds a relationship between two elements of this model.
// A second relationship with the same source, destination and description is
// rejected with ErrDuplicateRelationship.
func (m *Model) AddRelationship(source, destination *Element, description, technology string, style InteractionStyle, tags ...string) (*Relationship, error) {
	if source == nil || !m.owns(source) {
		return nil, fmt.Errorf("%w: relationship source", ErrForeignElement)
	}
	if destination == nil || !m.owns(destination) {
		return nil, fmt.Errorf("%w: relationship destination", ErrForeignElement)
	}

	for _, r := range m.relationships {
		if r.SourceID == source.ID && r.DestinationID == destination.ID && r.Description == description {
			return nil, fmt.Errorf("%w: %s -> %s %q", ErrDuplicateRelationship, source.CanonicalName(), destination.CanonicalName(), description)
		}
	}

	r := &Relationship{
		ID:               m.allocateID(),
		SourceID:         source.ID,
		DestinationID:    destination.ID,
		Description:      description,
		Technology:       technology,
		InteractionStyle: style,
		Tags:             addTags(nil, tags...),
	}
	m.relationships = append(m.relationships, r)
	return r, nil
}

// Element returns the element with the given ID, or nil
func (m *Model) Element(id string) *Element {
	return m.elements[id]
}

// ElementWithCanonicalName returns the element with the given canonical name, or nil
func (m *Model) ElementWithCanonicalName(name string) *Element {
	id, ok := m.byCanonical[name]
	if !ok {
		return nil
	}
	return m.elements[id]
}

// Parent returns the parent of e, or nil for top-level elements
func (m *Model) Parent(e *Element) *Element {
	if e == nil || e.ParentID == "" {
		return nil
	}
	return m.elements[e.ParentID]
}

// Children returns the direct children of e in insertion order
func (m *Model) Children(e *Element) []*Element {
	var children []*Element
	for _, id := range m.order {
		if child := m.elements[id]; child.ParentID == e.ID {
			children = append(children, child)
		}
	}
	return children
}

// Elements returns all elements in insertion order
func (m *Model) Elements() []*Element {
	elements := make([]*Element, 0, len(m.order))
	for _, id := range m.order {
		elements = append(elements, m.elements[id])
	}
	return elements
}

// ElementsOfKind returns the elements of one kind in insertion order
func (m *Model) ElementsOfKind(kind Kind) []*Element {
	var elements []*Element
	for _, id := range m.order {
		if e := m.elements[id]; e.Kind == kind {
			elements = append(elements, e)
		}
	}
	return elements
}

// Relationships returns all relationships in insertion order
func (m *Model) Relationships() []*Relationship {
	return slices.Clone(m.relationships)
}

// RelationshipsBetween returns the relationships from source to destination
func (m *Model) RelationshipsBetween(source, destination *Element) []*Relationship {
	var result []*Relationship
	for _, r := range m.relationships {
		if r.SourceID == source.ID && r.DestinationID == destination.ID {
			result = append(result, r)
		}
	}
	return result
}

// IsEmpty reports whether the model has no elements
func (m *Model) IsEmpty() bool {
	return len(m.order) == 0
}

// Clone returns a deep copy sharing no mutable state with m
func (m *Model) Clone() *Model {
	c := New()
	c.order = slices.Clone(m.order)
	c.nextID = m.nextID
	for id, e := range m.elements {
		c.elements[id] = e.clone()
	}
	for name, id := range m.byCanonical {
		c.byCanonical[name] = id
	}
	c.relationships = make([]*Relationship, len(m.relationships))
	for i, r := range m.relationships {
		c.relationships[i] = r.clone()
	}
	return c
}

// ReplaceWith makes m hold the contents of other, where other is a Clone of m
// that has only been added to. Elements and relationships m already had keep
// their identity, so pointers held into m stay valid; only the additions are
// adopted from other. other must not be used afterwards.
func (m *Model) ReplaceWith(other *Model) {
	for id, e := range other.elements {
		if existing, ok := m.elements[id]; ok {
			other.elements[id] = existing
		} else {
			other.elements[id] = e
		}
	}

	existing := make(map[string]*Relationship, len(m.relationships))
	for _, r := range m.relationships {
		existing[r.ID] = r
	}
	for i, r := range other.relationships {
		if kept, ok := existing[r.ID]; ok {
			other.relationships[i] = kept
		}
	}

	m.elements = other.elements
	m.order = other.order
	m.byCanonical = other.byCanonical
	m.relationships = other.relationships
	m.nextID = other.nextID
}

func (m *Model) owns(e *Element) bool {
	return m.elements[e.ID] == e
}

// path returns the names from the top-level ancestor down to e
func (m *Model) path(e *Element) []string {
	var names []string
	for cur := e; cur != nil; cur = m.Parent(cur) {
		names = append(names, cur.Name)
	}
	slices.Reverse(names)
	return names
}

func (m *Model) allocateID() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}
