package merge

import (
	"fmt"

	"github.com/lherron/archmerge/internal/model"
	"go.uber.org/zap"
)

// copyElements adds the indexed elements to the destination kind by kind,
// parents first, so every container and component finds its parent already copied.
func (p *planner) copyElements(index map[model.Kind][]sourceElement) error {
	for _, kind := range model.MergeOrder {
		for _, se := range index[kind] {
			copied, err := p.copyElement(se)
			if err != nil {
				return err
			}

			p.copyAttributes(se.source, se.element, copied)
			if err := copyDocumentation(se.element, copied); err != nil {
				return err
			}

			p.report.counts(kind).Created++
			p.logger.Debug("copied element",
				zap.String("element", copied.CanonicalName()),
				zap.String("source", se.source.Name),
			)
		}
	}
	return nil
}

func (p *planner) copyElement(se sourceElement) (*model.Element, error) {
	e := se.element

	var (
		copied *model.Element
		err    error
	)
	switch e.Kind {
	case model.KindPerson:
		copied, err = p.dest.AddPerson(e.Name, e.Description)
	case model.KindSoftwareSystem:
		copied, err = p.dest.AddSoftwareSystem(e.Name, e.Description)
	case model.KindContainer, model.KindComponent:
		parent, perr := p.resolveParent(se)
		if perr != nil {
			return nil, perr
		}
		if e.Kind == model.KindContainer {
			copied, err = p.dest.AddContainer(parent, e.Name, e.Description, e.Technology)
		} else {
			copied, err = p.dest.AddComponent(parent, e.Name, e.Description, e.Technology)
		}
	default:
		return nil, unsupportedElementTypes([]string{string(e.Kind)})
	}
	if err != nil {
		return nil, fromModelError(err)
	}
	return copied, nil
}

// resolveParent finds the destination counterpart of the source element's parent
// by canonical name. Placeholder status is inherited from ancestors, so the parent
// of a definitive element is definitive in the same source and was copied in an
// earlier kind pass.
func (p *planner) resolveParent(se sourceElement) (*model.Element, error) {
	srcParent := se.source.Model.Parent(se.element)
	if srcParent == nil {
		return nil, fmt.Errorf("failed to copy %s: parent %q not found in source %q",
			se.element.CanonicalName(), se.element.ParentID, se.source.Name)
	}

	parent := p.dest.ElementWithCanonicalName(srcParent.CanonicalName())
	if parent == nil || parent.Kind != se.element.Kind.ParentKind() {
		return nil, unresolvedExternals([]string{srcParent.CanonicalName()})
	}
	return parent, nil
}
