package editor

import (
	"context"
	"strings"

	"github.com/ikari-pl/littera/internal/types"
)

// EntityCandidate is the minimal projection the discovery list needs: a
// Mention's display label comes from here, never computed by the editor
// itself (spec.md §4.7: linguistics, not the editor, owns surface forms).
type EntityCandidate struct {
	EntityID string
	Label    string
}

// CandidateSource fetches every Entity candidate for a discovery session.
// internal/dataaccess.ListEntities (wrapped by the command layer) is the
// production implementation; it is asked once per session and cached
// (spec.md §4.5: "gathers candidate Entities asynchronously; cached after
// first fetch per session").
type CandidateSource func(ctx context.Context) ([]EntityCandidate, error)

// MentionSession is a discovery session bound to a cursor position,
// opened by typing a trigger character (spec.md §4.5). It is cancel-safe:
// discarding it without calling Accept leaves the Document untouched.
type MentionSession struct {
	source      CandidateSource
	cached      []EntityCandidate
	fetched     bool
	ContainerID string
	Offset      int // inline text offset within the container where the session started
}

// NewMentionSession opens a discovery session at (containerID, offset).
func NewMentionSession(containerID string, offset int, source CandidateSource) *MentionSession {
	return &MentionSession{source: source, ContainerID: containerID, Offset: offset}
}

// Candidates returns every Entity candidate, fetching and caching on the
// first call within this session.
func (m *MentionSession) Candidates(ctx context.Context) ([]EntityCandidate, error) {
	if m.fetched {
		return m.cached, nil
	}
	c, err := m.source(ctx)
	if err != nil {
		return nil, err
	}
	m.cached = c
	m.fetched = true
	return c, nil
}

// Filter narrows the cached candidates by case-insensitive prefix or
// substring match against their label, per spec.md §4.5 ("filters by
// prefix/substring match against labels"). Prefix matches sort before
// substring-only matches; ties keep the source order.
func (m *MentionSession) Filter(ctx context.Context, query string) ([]EntityCandidate, error) {
	all, err := m.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}
	q := strings.ToLower(query)

	var prefixMatches, substringMatches []EntityCandidate
	for _, c := range all {
		label := strings.ToLower(c.Label)
		switch {
		case strings.HasPrefix(label, q):
			prefixMatches = append(prefixMatches, c)
		case strings.Contains(label, q):
			substringMatches = append(substringMatches, c)
		}
	}
	return append(prefixMatches, substringMatches...), nil
}

// Accept inserts an atomic Mention node at the session's range by
// returning a new Inline slice with the trigger-through-query span
// replaced. The caller (the command/UI layer holding the actual cursor
// state) is responsible for splicing this into the Container's content;
// the editor core itself holds no cursor.
func Accept(before []Inline, candidate EntityCandidate, after []Inline) []Inline {
	out := make([]Inline, 0, len(before)+1+len(after))
	out = append(out, before...)
	out = append(out, Mention{Label: candidate.Label, EntityID: candidate.EntityID})
	out = append(out, after...)
	return out
}

// CandidatesFromEntities adapts internal/types Entities (as returned by
// internal/dataaccess.ListEntities) into the editor's narrow
// EntityCandidate projection, for callers building a CandidateSource.
func CandidatesFromEntities(entities []*types.Entity) []EntityCandidate {
	out := make([]EntityCandidate, 0, len(entities))
	for _, e := range entities {
		out = append(out, EntityCandidate{EntityID: e.ID, Label: e.Label})
	}
	return out
}
