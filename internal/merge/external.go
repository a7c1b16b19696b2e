package merge

import "github.com/lherron/archmerge/internal/model"

// IsDeclaredExternal reports whether e, or any of its ancestors in m, carries
// the External tag. Such elements are placeholders for a definition elsewhere.
func IsDeclaredExternal(m *model.Model, e *model.Element) bool {
	for cur := e; cur != nil; cur = m.Parent(cur) {
		if cur.HasTag(model.ExternalTag) {
			return true
		}
	}
	return false
}

// IsDefinitive reports whether e is the authoritative definition of its canonical name
func IsDefinitive(m *model.Model, e *model.Element) bool {
	return !IsDeclaredExternal(m, e)
}
