package merge

import (
	"slices"

	"github.com/lherron/archmerge/internal/model"
)

// sourceElement is an element together with the source it was read from
type sourceElement struct {
	source  *Source
	element *model.Element
}

// indexElements groups the definitive elements of all sources by kind, in
// source-then-insertion order. Elements of kinds merge cannot handle fail the
// whole index, naming every offending kind once. Placeholders are checked too:
// an External custom element is rejected, not resolved.
func indexElements(sources []Source, report *Report) (map[model.Kind][]sourceElement, error) {
	index := make(map[model.Kind][]sourceElement)
	var unsupported []string

	for i := range sources {
		src := &sources[i]
		for _, e := range src.Model.Elements() {
			if !e.Kind.Mergeable() {
				if !slices.Contains(unsupported, string(e.Kind)) {
					unsupported = append(unsupported, string(e.Kind))
				}
				continue
			}

			counts := report.counts(e.Kind)
			counts.Seen++
			if IsDeclaredExternal(src.Model, e) {
				counts.External++
				continue
			}
			index[e.Kind] = append(index[e.Kind], sourceElement{source: src, element: e})
		}
	}

	if len(unsupported) > 0 {
		slices.Sort(unsupported)
		return nil, unsupportedElementTypes(unsupported)
	}
	return index, nil
}
