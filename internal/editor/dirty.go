package editor

import "github.com/ikari-pl/littera/internal/types"

// Session binds a Document to its last-saved snapshot and tracks
// dirtiness by container identity, not content equality (spec.md §4.5:
// "containers unchanged since the last save are reference-identical to
// their saved counterparts"). It also remembers each loaded Block's
// CreatedAt so Save can preserve it across an update.
type Session struct {
	SectionID string
	current   *Document
	saved     map[string]*Container // BlockID -> saved *Container
	savedOrd  []string              // saved BlockID order, for Diff stability
	origin    map[string]*types.Block
}

// NewSession opens an editing session over a Section's Blocks. The
// resulting Document is also the first saved snapshot: nothing is dirty
// yet.
func NewSession(sectionID string, blocks []*types.Block) *Session {
	origin := make(map[string]*types.Block, len(blocks))
	for _, b := range blocks {
		origin[b.ID] = b
	}
	s := &Session{SectionID: sectionID, current: NewDocument(sectionID, blocks), origin: origin}
	s.snapshot()
	return s
}

func (s *Session) snapshot() {
	s.saved = make(map[string]*Container, len(s.current.Containers))
	s.savedOrd = make([]string, 0, len(s.current.Containers))
	for _, c := range s.current.Containers {
		s.saved[c.BlockID] = c
		s.savedOrd = append(s.savedOrd, c.BlockID)
	}
}

// Document returns the session's current, possibly-dirty Document.
func (s *Session) Document() *Document { return s.current }

// Replace swaps in a new current Document (e.g. after an editor mutation
// produces a fresh immutable tree), without touching the saved snapshot.
func (s *Session) Replace(doc *Document) { s.current = ensureNonEmpty(doc) }

// IsDirty reports whether Diff would report any create, update, or
// delete.
func (s *Session) IsDirty() bool {
	d := s.Diff()
	return len(d.Create) > 0 || len(d.Update) > 0 || len(d.Delete) > 0
}

// Diff is the create/update/delete set produced by comparing the current
// Document against the saved snapshot by Container pointer identity.
type Diff struct {
	Create []*Container
	Update []*Container
	Delete []string // BlockIDs present in the saved snapshot but not current
}

// Diff computes the dirty set without mutating the session. For each
// current container: absent from the saved snapshot is a create; present
// and pointer-identical to the saved one is clean; present but a
// different pointer is an update. Any saved BlockID absent from current
// is a delete.
func (s *Session) Diff() Diff {
	var d Diff
	seen := make(map[string]bool, len(s.current.Containers))
	for _, c := range s.current.Containers {
		seen[c.BlockID] = true
		savedC, ok := s.saved[c.BlockID]
		switch {
		case !ok:
			d.Create = append(d.Create, c)
		case savedC != c:
			d.Update = append(d.Update, c)
		}
	}
	for _, id := range s.savedOrd {
		if !seen[id] {
			d.Delete = append(d.Delete, id)
		}
	}
	return d
}

// markSaved replaces the saved snapshot with the current Document,
// clearing the dirty flag. Called only after a successful Save.
func (s *Session) markSaved() { s.snapshot() }
