// Package linguistics defines the narrow contract internal/command and
// internal/resource/httpapi call into to render an Entity's Label as inflected
// prose at a Mention site (spec.md §4.7). It deliberately says nothing
// about how a Provider decides a surface form — internal/linguistics/simple
// ships one deterministic reference implementation; a probabilistic or
// per-language-model implementation can satisfy the same interface
// without either caller changing.
package linguistics

import (
	"context"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/types"
)

// Surface is the rendered result of applying a Provider to a Mention
// site: the text to insert, a human-readable explanation of how it was
// derived (for review UIs), and any non-fatal warnings (e.g. "no rule
// for this language/case combination, falling back to the base form").
type Surface struct {
	Text        string
	Explanation string
	Warnings    []string
}

// Context carries whatever surrounding information a Provider may use
// to disambiguate a surface form beyond the Mention's own features —
// for example the literal text immediately before and after the mention
// site. Nil is always valid; a Provider that doesn't use context ignores it.
type Context struct {
	Preceding string
	Following string
}

// Provider renders an Entity's Label as a surface form appropriate for
// one Mention. EntityProps is the owning Entity's Properties bag;
// EntityLabel is the Label for the Mention's language (the caller is
// responsible for having looked it up); MentionFeatures carries the
// grammatical intent (case, number, role, possessive) to satisfy.
type Provider interface {
	SurfaceForm(ctx context.Context, props docvalue.Value, label types.EntityLabel, features types.MentionFeatures, language string, lctx *Context) (Surface, error)
}
