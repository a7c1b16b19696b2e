package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName             = errors.New("element name cannot be empty")
	ErrDuplicateTopLevelName = errors.New("duplicate top-level element name")
	ErrDuplicateElement      = errors.New("duplicate element name")
	ErrInvalidParent         = errors.New("invalid parent element")
	ErrForeignElement        = errors.New("element does not belong to this model")
	ErrDuplicateRelationship = errors.New("relationship already exists")
)

// NameConflictError is returned when an element's canonical name is already taken.
// It matches ErrDuplicateTopLevelName or ErrDuplicateElement depending on the kind.
type NameConflictError struct {
	Kind          Kind
	Name          string
	CanonicalName string
}

func (e *NameConflictError) Error() string {
	switch e.Kind {
	case KindContainer:
		return fmt.Sprintf("A container named '%s' already exists for this software system.", e.Name)
	case KindComponent:
		return fmt.Sprintf("A component named '%s' already exists for this container.", e.Name)
	default:
		return fmt.Sprintf("A top-level element named '%s' already exists.", e.Name)
	}
}

func (e *NameConflictError) Is(target error) bool {
	if e.Kind.TopLevel() {
		return target == ErrDuplicateTopLevelName
	}
	return target == ErrDuplicateElement
}
