package main

import (
	"strings"

	"github.com/ikari-pl/littera/internal/docvalue"
)

// parseMeta turns repeated --meta key=value flags into a docvalue.Value,
// the same flat key/value shape internal/docvalue.FromStringMap documents
// as "the shape the Command Surface accepts on the CLI".
func parseMeta(pairs []string) docvalue.Value {
	if len(pairs) == 0 {
		return docvalue.Nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return docvalue.FromStringMap(m)
}
