package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lherron/archmerge/internal/model"
)

// ErrorKind classifies a merge failure
type ErrorKind string

const (
	UnsupportedElementType          ErrorKind = "UnsupportedElementType"
	DuplicateTopLevelName           ErrorKind = "DuplicateTopLevelName"
	DuplicateElement                ErrorKind = "DuplicateElement"
	UnresolvedExternalReference     ErrorKind = "UnresolvedExternalReference"
	MissingRelationshipEndpoint     ErrorKind = "MissingRelationshipEndpoint"
	UnsupportedDocumentationFeature ErrorKind = "UnsupportedDocumentationFeature"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrUnsupportedElementType   = errors.New("unsupported element type")
	ErrDuplicateTopLevelName    = errors.New("duplicate top-level name")
	ErrDuplicateElement         = errors.New("duplicate element")
	ErrUnresolvedExternal       = errors.New("unresolved external reference")
	ErrMissingEndpoint          = errors.New("missing relationship endpoint")
	ErrUnsupportedDocumentation = errors.New("unsupported documentation feature")

	ErrNoSources     = errors.New("no source models to merge")
	ErrNoDestination = errors.New("no destination model to merge into")
)

var sentinels = map[ErrorKind]error{
	UnsupportedElementType:          ErrUnsupportedElementType,
	DuplicateTopLevelName:           ErrDuplicateTopLevelName,
	DuplicateElement:                ErrDuplicateElement,
	UnresolvedExternalReference:     ErrUnresolvedExternal,
	MissingRelationshipEndpoint:     ErrMissingEndpoint,
	UnsupportedDocumentationFeature: ErrUnsupportedDocumentation,
}

// Error is a merge failure. Message is part of the observable contract and is
// returned verbatim by Error().
type Error struct {
	Kind    ErrorKind
	Message string
	// Keys holds the canonical names (or kind names) involved, sorted.
	Keys []string
	Err  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func unsupportedElementTypes(kinds []string) *Error {
	return &Error{
		Kind:    UnsupportedElementType,
		Message: "The following element types are currently unsupported: " + strings.Join(kinds, ", "),
		Keys:    kinds,
	}
}

func unresolvedExternals(names []string) *Error {
	return &Error{
		Kind:    UnresolvedExternalReference,
		Message: "The following elements are declared External, but aren't defined anywhere: " + strings.Join(names, ", "),
		Keys:    names,
	}
}

// missingEndpoint reports an unresolvable relationship end; role is "Source" or "Destination"
func missingEndpoint(role, name string) *Error {
	return &Error{
		Kind:    MissingRelationshipEndpoint,
		Message: fmt.Sprintf("%s %s has not been defined", role, name),
		Keys:    []string{name},
	}
}

func decisionsUnsupported(name string, count int) *Error {
	return &Error{
		Kind:    UnsupportedDocumentationFeature,
		Message: fmt.Sprintf("Copying documentation decisions is not supported: %s has %d decision(s)", name, count),
		Keys:    []string{name},
	}
}

// fromModelError maps a model error raised while copying into the merge taxonomy
func fromModelError(err error) error {
	var conflict *model.NameConflictError
	if errors.As(err, &conflict) {
		kind := DuplicateElement
		if conflict.Kind.TopLevel() {
			kind = DuplicateTopLevelName
		}
		return &Error{
			Kind:    kind,
			Message: conflict.Error(),
			Keys:    []string{conflict.CanonicalName},
			Err:     err,
		}
	}
	return fmt.Errorf("failed to copy element: %w", err)
}
