package merge

import "slices"

// checkExternals verifies that every placeholder in every source has a
// definitive counterpart in the destination. It runs after all definitive
// elements are copied, so a placeholder may be resolved by any source or by
// content the destination already had.
func (p *planner) checkExternals(sources []Source) error {
	var unresolved []string
	for i := range sources {
		src := &sources[i]
		for _, e := range src.Model.Elements() {
			if !IsDeclaredExternal(src.Model, e) {
				continue
			}
			name := e.CanonicalName()
			if p.dest.ElementWithCanonicalName(name) == nil {
				unresolved = append(unresolved, name)
			}
		}
	}

	if len(unresolved) == 0 {
		return nil
	}
	slices.Sort(unresolved)
	return unresolvedExternals(slices.Compact(unresolved))
}
