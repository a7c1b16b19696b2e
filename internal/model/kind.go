package model

import (
	"fmt"
	"strings"
)

// Kind represents the type of an element
type Kind string

const (
	KindPerson         Kind = "Person"
	KindSoftwareSystem Kind = "SoftwareSystem"
	KindContainer      Kind = "Container"
	KindComponent      Kind = "Component"

	// Known to the workspace format but not handled by merge.
	KindCustomElement  Kind = "CustomElement"
	KindDeploymentNode Kind = "DeploymentNode"
)

// MergeOrder lists the mergeable kinds with parents before children.
var MergeOrder = []Kind{KindPerson, KindSoftwareSystem, KindContainer, KindComponent}

var knownKinds = []Kind{
	KindPerson,
	KindSoftwareSystem,
	KindContainer,
	KindComponent,
	KindCustomElement,
	KindDeploymentNode,
}

// Mergeable reports whether elements of this kind can be merged
func (k Kind) Mergeable() bool {
	switch k {
	case KindPerson, KindSoftwareSystem, KindContainer, KindComponent:
		return true
	default:
		return false
	}
}

// TopLevel reports whether elements of this kind have no parent
func (k Kind) TopLevel() bool {
	switch k {
	case KindPerson, KindSoftwareSystem, KindCustomElement, KindDeploymentNode:
		return true
	default:
		return false
	}
}

// ParentKind returns the kind a parent must have, or "" for top-level kinds
func (k Kind) ParentKind() Kind {
	switch k {
	case KindContainer:
		return KindSoftwareSystem
	case KindComponent:
		return KindContainer
	default:
		return ""
	}
}

// Level returns the depth of the kind in the hierarchy (0 for top-level)
func (k Kind) Level() int {
	switch k {
	case KindContainer:
		return 1
	case KindComponent:
		return 2
	default:
		return 0
	}
}

// ParseKind validates an element kind name
func ParseKind(s string) (Kind, error) {
	for _, k := range knownKinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(knownKinds))
	for i, k := range knownKinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("invalid element kind %q: must be one of: %s", s, strings.Join(names, ", "))
}

// InteractionStyle describes how a relationship's endpoints interact
type InteractionStyle string

const (
	InteractionUnspecified  InteractionStyle = ""
	InteractionSynchronous  InteractionStyle = "Synchronous"
	InteractionAsynchronous InteractionStyle = "Asynchronous"
)

// ParseInteractionStyle validates an interaction style
func ParseInteractionStyle(s string) (InteractionStyle, error) {
	switch InteractionStyle(s) {
	case InteractionUnspecified, InteractionSynchronous, InteractionAsynchronous:
		return InteractionStyle(s), nil
	default:
		return "", fmt.Errorf("invalid interaction style %q: must be one of: Synchronous, Asynchronous", s)
	}
}

// Format is the markup format of a documentation section or decision
type Format string

const (
	FormatMarkdown Format = "Markdown"
	FormatAsciiDoc Format = "AsciiDoc"
)
