package merge

import "github.com/lherron/archmerge/internal/model"

// Report summarises a merge
type Report struct {
	DryRun          bool               `json:"dry_run" yaml:"dry_run"`
	Sources         []string           `json:"sources" yaml:"sources"`
	People          Counts             `json:"people" yaml:"people"`
	SoftwareSystems Counts             `json:"software_systems" yaml:"software_systems"`
	Containers      Counts             `json:"containers" yaml:"containers"`
	Components      Counts             `json:"components" yaml:"components"`
	Relationships   RelationshipCounts `json:"relationships" yaml:"relationships"`

	// Totals in the destination after the merge (or after the planned merge for dry runs)
	TotalElements      int `json:"total_elements" yaml:"total_elements"`
	TotalRelationships int `json:"total_relationships" yaml:"total_relationships"`
}

// Counts tracks elements of one kind across all sources
type Counts struct {
	Seen     int `json:"seen" yaml:"seen"`
	Created  int `json:"created" yaml:"created"`
	External int `json:"external" yaml:"external"`
}

// RelationshipCounts tracks relationships across all sources
type RelationshipCounts struct {
	Seen            int `json:"seen" yaml:"seen"`
	Created         int `json:"created" yaml:"created"`
	External        int `json:"external" yaml:"external"`
	FromPlaceholder int `json:"from_placeholder" yaml:"from_placeholder"`
	Duplicate       int `json:"duplicate" yaml:"duplicate"`
}

func newReport(sources []Source, dryRun bool) *Report {
	r := &Report{DryRun: dryRun}
	for _, s := range sources {
		r.Sources = append(r.Sources, s.Name)
	}
	return r
}

// counts returns the counter for a mergeable kind, or nil
func (r *Report) counts(kind model.Kind) *Counts {
	switch kind {
	case model.KindPerson:
		return &r.People
	case model.KindSoftwareSystem:
		return &r.SoftwareSystems
	case model.KindContainer:
		return &r.Containers
	case model.KindComponent:
		return &r.Components
	default:
		return nil
	}
}

// ElementsCreated returns the number of elements the merge added
func (r *Report) ElementsCreated() int {
	return r.People.Created + r.SoftwareSystems.Created + r.Containers.Created + r.Components.Created
}
