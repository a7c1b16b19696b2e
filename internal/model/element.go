package model

import (
	"maps"
	"slices"
	"strings"
)

// ExternalTag marks an element or relationship as declared elsewhere.
const ExternalTag = "External"

// Perspective is a named annotation attached to an element
type Perspective struct {
	Name        string
	Description string
	Value       string
}

// Element is a node in the model: a person, software system, container or component.
// Elements are created through a Model, which assigns the ID and canonical name.
type Element struct {
	ID            string
	Kind          Kind
	Name          string
	Description   string
	Technology    string
	Tags          []string
	Group         string
	URL           string
	Properties    map[string]string
	Perspectives  []Perspective
	ParentID      string
	Documentation *Documentation

	canonicalName string
}

// CanonicalName returns the identity key, e.g. "Container://System.Container"
func (e *Element) CanonicalName() string {
	return e.canonicalName
}

// HasTag reports whether the element carries tag
func (e *Element) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// AddTags appends tags, skipping blanks and ones already present
func (e *Element) AddTags(tags ...string) {
	e.Tags = addTags(e.Tags, tags...)
}

// SetTags replaces the tags with a copy of tags
func (e *Element) SetTags(tags []string) {
	e.Tags = addTags(nil, tags...)
}

// SetProperty sets a property value
func (e *Element) SetProperty(key, value string) {
	if e.Properties == nil {
		e.Properties = make(map[string]string)
	}
	e.Properties[key] = value
}

// AddPerspective appends a perspective
func (e *Element) AddPerspective(name, description, value string) {
	e.Perspectives = append(e.Perspectives, Perspective{Name: name, Description: description, Value: value})
}

func (e *Element) clone() *Element {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	c.Properties = maps.Clone(e.Properties)
	c.Perspectives = slices.Clone(e.Perspectives)
	c.Documentation = e.Documentation.clone()
	return &c
}

// Relationship is a directed edge between two elements of the same model
type Relationship struct {
	ID               string
	SourceID         string
	DestinationID    string
	Description      string
	Technology       string
	InteractionStyle InteractionStyle
	Tags             []string
}

// HasTag reports whether the relationship carries tag
func (r *Relationship) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

func (r *Relationship) clone() *Relationship {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	return &c
}

// addTags appends tags to an ordered set
func addTags(set []string, tags ...string) []string {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(set, tag) {
			continue
		}
		set = append(set, tag)
	}
	return set
}

// canonicalName builds "<kind>://a.b.c" from a path of names
func canonicalName(kind Kind, path []string) string {
	parts := make([]string, len(path))
	for i, name := range path {
		parts[i] = strings.ReplaceAll(name, "/", "")
	}
	return string(kind) + "://" + strings.Join(parts, ".")
}
