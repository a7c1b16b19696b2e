// Package merge combines several architecture models into one.
//
// Each source model may declare placeholder elements by tagging them (or an
// ancestor) "External". Placeholders are never copied; instead another source,
// or the destination itself, must hold the definitive element with the same
// canonical name. Definitive elements are copied kind by kind (people, software
// systems, containers, components) so parents always exist before their
// children. Relationships are copied last, from the side that owns their source
// element.
//
// Merge is all-or-nothing: the merge is planned against a copy of the
// destination and committed only when every check passes.
package merge

import (
	"fmt"

	"github.com/lherron/archmerge/internal/model"
	"go.uber.org/zap"
)

// DefaultSourceProperty is the element property the CLI stamps with the
// name of the workspace an element was merged from.
const DefaultSourceProperty = "workspace-name"

// Source is one read-only input model
type Source struct {
	Name  string
	Model *model.Model
}

// Option configures a Merger
type Option func(*Merger)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDryRun plans and validates the merge without changing the destination
func WithDryRun(dryRun bool) Option {
	return func(m *Merger) {
		m.dryRun = dryRun
	}
}

// WithSourceProperty records each source's name under key on the elements
// copied from it. Elements that already carry key keep their value.
func WithSourceProperty(key string) Option {
	return func(m *Merger) {
		m.sourceProperty = key
	}
}

// Merger merges source models into a destination model
type Merger struct {
	logger         *zap.Logger
	dryRun         bool
	sourceProperty string
}

// NewMerger creates a Merger
func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge merges sources into destination with a Merger built from opts
func Merge(sources []Source, destination *model.Model, opts ...Option) (*Report, error) {
	return NewMerger(opts...).Merge(sources, destination)
}

// Merge merges sources into destination. Existing destination content is kept
// and takes part in uniqueness and placeholder resolution. On error the
// destination is left unchanged. Merge holds the destination's lock for the
// duration of the call.
func (m *Merger) Merge(sources []Source, destination *model.Model) (*Report, error) {
	if err := checkArgs(sources, destination); err != nil {
		return nil, err
	}

	destination.Lock()
	defer destination.Unlock()

	planned, report, err := m.plan(sources, destination)
	if err != nil {
		return nil, err
	}

	if m.dryRun {
		m.logger.Info("dry-run merge planned",
			zap.Int("elements_created", report.ElementsCreated()),
			zap.Int("relationships_created", report.Relationships.Created),
		)
		return report, nil
	}

	destination.ReplaceWith(planned)
	m.logger.Info("merge committed",
		zap.Int("elements_created", report.ElementsCreated()),
		zap.Int("relationships_created", report.Relationships.Created),
		zap.Int("total_elements", report.TotalElements),
	)
	return report, nil
}

// Plan returns what destination would look like after merging sources into
// it, leaving destination untouched.
func (m *Merger) Plan(sources []Source, destination *model.Model) (*model.Model, *Report, error) {
	if err := checkArgs(sources, destination); err != nil {
		return nil, nil, err
	}

	destination.Lock()
	defer destination.Unlock()

	return m.plan(sources, destination)
}

func checkArgs(sources []Source, destination *model.Model) error {
	if len(sources) == 0 {
		return ErrNoSources
	}
	if destination == nil {
		return ErrNoDestination
	}
	for i, s := range sources {
		if s.Model == nil {
			return fmt.Errorf("source %d (%q) has no model", i, s.Name)
		}
	}
	return nil
}

// plan runs the merge against a clone of destination; the caller holds the lock
func (m *Merger) plan(sources []Source, destination *model.Model) (*model.Model, *Report, error) {
	p := &planner{
		dest:           destination.Clone(),
		report:         newReport(sources, m.dryRun),
		logger:         m.logger,
		sourceProperty: m.sourceProperty,
	}
	if err := p.run(sources); err != nil {
		m.logger.Warn("merge failed", zap.Error(err), zap.Strings("sources", p.report.Sources))
		return nil, nil, err
	}

	p.report.TotalElements = len(p.dest.Elements())
	p.report.TotalRelationships = len(p.dest.Relationships())
	return p.dest, p.report, nil
}

// planner carries the working copy of the destination through one merge
type planner struct {
	dest           *model.Model
	report         *Report
	logger         *zap.Logger
	sourceProperty string
}

func (p *planner) run(sources []Source) error {
	index, err := indexElements(sources, p.report)
	if err != nil {
		return err
	}

	if err := p.copyElements(index); err != nil {
		return err
	}
	p.logger.Debug("elements copied", zap.Int("count", p.report.ElementsCreated()))

	if err := p.checkExternals(sources); err != nil {
		return err
	}

	if err := p.copyRelationships(sources); err != nil {
		return err
	}
	p.logger.Debug("relationships copied", zap.Int("count", p.report.Relationships.Created))
	return nil
}
