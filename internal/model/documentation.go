package model

import "slices"

// Documentation holds the sections, images and decisions attached to an element
type Documentation struct {
	Sections  []Section
	Images    []Image
	Decisions []Decision
}

// Section is one ordered documentation page
type Section struct {
	Order    int
	Format   Format
	Content  string
	Filename string
}

// Image is an embedded documentation image; Content is base64 text
type Image struct {
	Name    string
	Type    string
	Content string
}

// Decision is an architecture decision record
type Decision struct {
	ID      string
	Date    string
	Status  string
	Title   string
	Format  Format
	Content string
}

// AddSection appends a section
func (d *Documentation) AddSection(s Section) {
	d.Sections = append(d.Sections, s)
}

// AddImage appends an image
func (d *Documentation) AddImage(img Image) {
	d.Images = append(d.Images, img)
}

// AddDecision appends a decision
func (d *Documentation) AddDecision(dec Decision) {
	d.Decisions = append(d.Decisions, dec)
}

// IsEmpty reports whether there is nothing to document
func (d *Documentation) IsEmpty() bool {
	return d == nil || (len(d.Sections) == 0 && len(d.Images) == 0 && len(d.Decisions) == 0)
}

func (d *Documentation) clone() *Documentation {
	if d == nil {
		return &Documentation{}
	}
	return &Documentation{
		Sections:  slices.Clone(d.Sections),
		Images:    slices.Clone(d.Images),
		Decisions: slices.Clone(d.Decisions),
	}
}
