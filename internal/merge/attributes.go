package merge

import (
	"maps"
	"slices"

	"github.com/lherron/archmerge/internal/model"
)

// copyAttributes copies the structural attributes of from onto its freshly
// created counterpart. Collections are copied by value.
func (p *planner) copyAttributes(src *Source, from, to *model.Element) {
	to.SetTags(from.Tags)
	to.Group = from.Group
	to.URL = from.URL
	to.Properties = maps.Clone(from.Properties)
	if to.Properties == nil {
		to.Properties = make(map[string]string)
	}
	to.Perspectives = slices.Clone(from.Perspectives)

	if key := p.sourceProperty; key != "" && src.Name != "" {
		if _, ok := to.Properties[key]; !ok {
			to.Properties[key] = src.Name
		}
	}
}
