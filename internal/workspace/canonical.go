package workspace

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON produces a deterministic compact JSON encoding of ws:
// - Struct fields in declaration order, map keys sorted
// - Empty collections and empty documentation omitted
// - No HTML escaping, no trailing newline
//
// A document decoded from JSON or from YAML yields the same bytes.
func CanonicalJSON(ws *Workspace) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(normalize(ws)); err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Rev returns "sha256:<hex>" of data
func Rev(data []byte) string {
	hash := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// CanonicalRev is Rev(CanonicalJSON(ws))
func CanonicalRev(ws *Workspace) (string, error) {
	data, err := CanonicalJSON(ws)
	if err != nil {
		return "", err
	}
	return Rev(data), nil
}

// normalize returns a shallow copy of ws with empty documentation blocks dropped
func normalize(ws *Workspace) *Workspace {
	out := *ws
	out.Model.Elements = make([]ElementEntry, len(ws.Model.Elements))
	for i, e := range ws.Model.Elements {
		if d := e.Documentation; d != nil && len(d.Sections) == 0 && len(d.Images) == 0 && len(d.Decisions) == 0 {
			e.Documentation = nil
		}
		out.Model.Elements[i] = e
	}
	return &out
}
