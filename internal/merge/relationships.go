package merge

import (
	"errors"
	"fmt"

	"github.com/lherron/archmerge/internal/model"
	"go.uber.org/zap"
)

// copyRelationships copies every relationship that is not tagged External and
// whose source element is definitive. Relationships authored from inside a
// placeholder are dropped; the defining side authors its own copy.
func (p *planner) copyRelationships(sources []Source) error {
	counts := &p.report.Relationships

	for i := range sources {
		src := &sources[i]
		for _, r := range src.Model.Relationships() {
			counts.Seen++

			if r.HasTag(model.ExternalTag) {
				counts.External++
				continue
			}
			if source := src.Model.Element(r.SourceID); source != nil && IsDeclaredExternal(src.Model, source) {
				counts.FromPlaceholder++
				p.logger.Debug("dropped relationship from placeholder",
					zap.String("source", source.CanonicalName()),
					zap.String("description", r.Description),
					zap.String("workspace", src.Name),
				)
				continue
			}

			from, err := p.resolveEndpoint(src, r.SourceID, "Source")
			if err != nil {
				return err
			}
			to, err := p.resolveEndpoint(src, r.DestinationID, "Destination")
			if err != nil {
				return err
			}

			_, err = p.dest.AddRelationship(from, to, r.Description, r.Technology, r.InteractionStyle, r.Tags...)
			if errors.Is(err, model.ErrDuplicateRelationship) {
				counts.Duplicate++
				p.logger.Debug("relationship already present",
					zap.String("source", from.CanonicalName()),
					zap.String("destination", to.CanonicalName()),
					zap.String("description", r.Description),
				)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to copy relationship %s -> %s: %w", from.CanonicalName(), to.CanonicalName(), err)
			}
			counts.Created++
		}
	}
	return nil
}

// resolveEndpoint maps a source element ID to the destination element with the same canonical name
func (p *planner) resolveEndpoint(src *Source, id, role string) (*model.Element, error) {
	e := src.Model.Element(id)
	if e == nil {
		return nil, missingEndpoint(role, fmt.Sprintf("#%s in %s", id, src.Name))
	}
	resolved := p.dest.ElementWithCanonicalName(e.CanonicalName())
	if resolved == nil {
		return nil, missingEndpoint(role, e.CanonicalName())
	}
	return resolved, nil
}
