// Package workspace reads and writes architecture workspaces as JSON or YAML
// documents and converts them to and from model.Model.
//
// Element and relationship ids in a document are local to it. They are used to
// link children to parents and relationships to their endpoints, and are
// reassigned when the document is turned into a model.
package workspace

// Workspace is a named model as stored on disk
type Workspace struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Model       Model  `json:"model" yaml:"model"`
}

// Model holds the elements and relationships of a workspace
type Model struct {
	Elements      []ElementEntry      `json:"elements,omitempty" yaml:"elements,omitempty" validate:"dive"`
	Relationships []RelationshipEntry `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`
}

// ElementEntry is one element. Parent holds the id of the parent element for
// containers and components.
type ElementEntry struct {
	ID            string            `json:"id" yaml:"id" validate:"required"`
	Kind          string            `json:"kind" yaml:"kind" validate:"required,oneof=Person SoftwareSystem Container Component CustomElement DeploymentNode"`
	Name          string            `json:"name" yaml:"name" validate:"required"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
	Technology    string            `json:"technology,omitempty" yaml:"technology,omitempty"`
	Parent        string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	Tags          []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Group         string            `json:"group,omitempty" yaml:"group,omitempty"`
	URL           string            `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Properties    map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	Perspectives  []Perspective     `json:"perspectives,omitempty" yaml:"perspectives,omitempty" validate:"dive"`
	Documentation *Documentation    `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

type Perspective struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
}

type Documentation struct {
	Sections  []Section  `json:"sections,omitempty" yaml:"sections,omitempty" validate:"dive"`
	Images    []Image    `json:"images,omitempty" yaml:"images,omitempty" validate:"dive"`
	Decisions []Decision `json:"decisions,omitempty" yaml:"decisions,omitempty" validate:"dive"`
}

type Section struct {
	Order    int    `json:"order" yaml:"order"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=Markdown AsciiDoc"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Image content is base64 text
type Image struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

type Decision struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=Markdown AsciiDoc"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// RelationshipEntry is a directed relationship between two element ids
type RelationshipEntry struct {
	ID               string   `json:"id,omitempty" yaml:"id,omitempty"`
	Source           string   `json:"source" yaml:"source" validate:"required"`
	Destination      string   `json:"destination" yaml:"destination" validate:"required"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technology       string   `json:"technology,omitempty" yaml:"technology,omitempty"`
	InteractionStyle string   `json:"interactionStyle,omitempty" yaml:"interactionStyle,omitempty" validate:"omitempty,oneof=Synchronous Asynchronous"`
	Tags             []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
