package merge

import (
	"slices"
	"sort"

	"github.com/lherron/archmerge/internal/model"
)

// copyDocumentation appends the documentation of from to to. Sections are
// ordered by their Order field, images keep their order. Decisions cannot be
// copied; any decision fails the copy before anything is appended.
func copyDocumentation(from, to *model.Element) error {
	doc := from.Documentation
	if doc == nil {
		return nil
	}
	if len(doc.Decisions) > 0 {
		return decisionsUnsupported(from.CanonicalName(), len(doc.Decisions))
	}

	if to.Documentation == nil {
		to.Documentation = &model.Documentation{}
	}

	sections := slices.Clone(doc.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	for _, s := range sections {
		to.Documentation.AddSection(model.Section{
			Order:    s.Order,
			Format:   s.Format,
			Content:  s.Content,
			Filename: s.Filename,
		})
	}

	for _, img := range doc.Images {
		to.Documentation.AddImage(model.Image{
			Name:    img.Name,
			Type:    img.Type,
			Content: img.Content,
		})
	}
	return nil
}
