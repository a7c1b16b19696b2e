package workspace

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lherron/archmerge/internal/model"
)

// ToModel builds a model from the document. Elements are created parents
// first regardless of their order in the document; model ids are assigned
// fresh.
func (w *Workspace) ToModel() (*model.Model, error) {
	entries := make([]*ElementEntry, len(w.Model.Elements))
	kinds := make(map[string]model.Kind, len(entries))
	for i := range w.Model.Elements {
		e := &w.Model.Elements[i]
		if _, dup := kinds[e.ID]; dup {
			return nil, fmt.Errorf("duplicate element id %q", e.ID)
		}
		kind, err := model.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", e.ID, err)
		}
		kinds[e.ID] = kind
		entries[i] = e
	}
	slices.SortStableFunc(entries, func(a, b *ElementEntry) int {
		return kinds[a.ID].Level() - kinds[b.ID].Level()
	})

	m := model.New()
	byID := make(map[string]*model.Element, len(entries))
	for _, entry := range entries {
		e, err := addEntry(m, kinds[entry.ID], entry, byID)
		if err != nil {
			return nil, fmt.Errorf("element %q (%s %q): %w", entry.ID, entry.Kind, entry.Name, err)
		}
		applyEntry(entry, e)
		byID[entry.ID] = e
	}

	for i, r := range w.Model.Relationships {
		source, ok := byID[r.Source]
		if !ok {
			return nil, fmt.Errorf("relationship %d: source element %q not found", i, r.Source)
		}
		destination, ok := byID[r.Destination]
		if !ok {
			return nil, fmt.Errorf("relationship %d: destination element %q not found", i, r.Destination)
		}
		style, err := model.ParseInteractionStyle(r.InteractionStyle)
		if err != nil {
			return nil, fmt.Errorf("relationship %d: %w", i, err)
		}
		if _, err := m.AddRelationship(source, destination, r.Description, r.Technology, style, r.Tags...); err != nil {
			return nil, fmt.Errorf("relationship %d: %w", i, err)
		}
	}
	return m, nil
}

func addEntry(m *model.Model, kind model.Kind, entry *ElementEntry, byID map[string]*model.Element) (*model.Element, error) {
	if kind.TopLevel() {
		if entry.Parent != "" {
			return nil, fmt.Errorf("%s elements cannot have a parent", kind)
		}
		switch kind {
		case model.KindPerson:
			return m.AddPerson(entry.Name, entry.Description)
		case model.KindSoftwareSystem:
			return m.AddSoftwareSystem(entry.Name, entry.Description)
		case model.KindCustomElement:
			return m.AddCustomElement(entry.Name, entry.Description)
		default:
			return m.AddDeploymentNode(entry.Name, entry.Description, entry.Technology)
		}
	}

	if entry.Parent == "" {
		return nil, fmt.Errorf("%s elements need a parent", kind)
	}
	parent, ok := byID[entry.Parent]
	if !ok {
		return nil, fmt.Errorf("parent element %q not found", entry.Parent)
	}
	if kind == model.KindContainer {
		return m.AddContainer(parent, entry.Name, entry.Description, entry.Technology)
	}
	return m.AddComponent(parent, entry.Name, entry.Description, entry.Technology)
}

func applyEntry(entry *ElementEntry, e *model.Element) {
	e.SetTags(entry.Tags)
	e.Group = entry.Group
	e.URL = entry.URL
	for k, v := range entry.Properties {
		e.SetProperty(k, v)
	}
	for _, p := range entry.Perspectives {
		e.AddPerspective(p.Name, p.Description, p.Value)
	}

	doc := entry.Documentation
	if doc == nil {
		return
	}
	for _, s := range doc.Sections {
		e.Documentation.AddSection(model.Section{
			Order:    s.Order,
			Format:   model.Format(s.Format),
			Content:  s.Content,
			Filename: s.Filename,
		})
	}
	for _, img := range doc.Images {
		e.Documentation.AddImage(model.Image{Name: img.Name, Type: img.Type, Content: img.Content})
	}
	for _, d := range doc.Decisions {
		e.Documentation.AddDecision(model.Decision{
			ID:      d.ID,
			Date:    d.Date,
			Status:  d.Status,
			Title:   d.Title,
			Format:  model.Format(d.Format),
			Content: d.Content,
		})
	}
}

// FromModel builds a document from m, using the model's element and relationship ids
func FromModel(name, description string, m *model.Model) *Workspace {
	ws := &Workspace{Name: name, Description: description}

	for _, e := range m.Elements() {
		entry := ElementEntry{
			ID:          e.ID,
			Kind:        string(e.Kind),
			Name:        e.Name,
			Description: e.Description,
			Technology:  e.Technology,
			Parent:      e.ParentID,
			Tags:        slices.Clone(e.Tags),
			Group:       e.Group,
			URL:         e.URL,
		}
		if len(e.Properties) > 0 {
			entry.Properties = maps.Clone(e.Properties)
		}
		for _, p := range e.Perspectives {
			entry.Perspectives = append(entry.Perspectives, Perspective(p))
		}
		if !e.Documentation.IsEmpty() {
			entry.Documentation = fromDocumentation(e.Documentation)
		}
		ws.Model.Elements = append(ws.Model.Elements, entry)
	}

	for _, r := range m.Relationships() {
		ws.Model.Relationships = append(ws.Model.Relationships, RelationshipEntry{
			ID:               r.ID,
			Source:           r.SourceID,
			Destination:      r.DestinationID,
			Description:      r.Description,
			Technology:       r.Technology,
			InteractionStyle: string(r.InteractionStyle),
			Tags:             slices.Clone(r.Tags),
		})
	}
	return ws
}

func fromDocumentation(d *model.Documentation) *Documentation {
	doc := &Documentation{}
	for _, s := range d.Sections {
		doc.Sections = append(doc.Sections, Section{
			Order:    s.Order,
			Format:   string(s.Format),
			Filename: s.Filename,
			Content:  s.Content,
		})
	}
	for _, img := range d.Images {
		doc.Images = append(doc.Images, Image(img))
	}
	for _, dec := range d.Decisions {
		doc.Decisions = append(doc.Decisions, Decision{
			ID:      dec.ID,
			Date:    dec.Date,
			Status:  dec.Status,
			Title:   dec.Title,
			Format:  string(dec.Format),
			Content: dec.Content,
		})
	}
	return doc
}
