// Package types defines the relational data model shared by storage,
// data access, the command surface, and the editor: Work, Document,
// Section, Block, Entity, EntityLabel, EntityWorkMetadata, Mention,
// BlockAlignment, and Review.
package types

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ikari-pl/littera/internal/docvalue"
)

// NewID mints a globally unique opaque identifier. Identifiers are minted
// by the creator (front-end or command layer), never by storage, so that
// optimistic writes round-trip to the same identifier.
func NewID() string { return uuid.New().String() }

// Work is a bounded intellectual artifact: the root of the hierarchy.
type Work struct {
	ID              string
	CreatedAt       time.Time
	Title           string
	Description     string
	DefaultLanguage string
	Metadata        docvalue.Value
}

// Document is an ordered child of a Work.
type Document struct {
	ID         string
	WorkID     string
	CreatedAt  time.Time
	Title      string
	OrderIndex int
	Metadata   docvalue.Value
}

// Section is a hierarchical child of a Document; may nest under another
// Section in the same Document via ParentSectionID.
type Section struct {
	ID              string
	DocumentID      string
	ParentSectionID string // empty if a direct child of the Document
	CreatedAt       time.Time
	Title           string
	OrderIndex      int
	Metadata        docvalue.Value
}

// BlockKind is an open vocabulary (spec: "recorded in metadata, not
// schema"); the registry below seeds the common values so the CLI and
// editor agree on names without hard-coding an enum into the schema.
type BlockKind string

const (
	BlockKindProse   BlockKind = "prose"
	BlockKindHeading BlockKind = "heading"
	BlockKindCode    BlockKind = "code"
	BlockKindQuote   BlockKind = "quote"
	BlockKindHR      BlockKind = "hr"
)

var knownBlockKinds = map[BlockKind]bool{
	BlockKindProse:   true,
	BlockKindHeading: true,
	BlockKindCode:    true,
	BlockKindQuote:   true,
	BlockKindHR:      true,
}

// RegisterBlockKind extends the known-kind vocabulary at runtime (e.g. a
// front-end plugin introducing a new block kind).
func RegisterBlockKind(k BlockKind) { knownBlockKinds[k] = true }

// KnownBlockKinds returns the currently registered vocabulary, sorted.
func KnownBlockKinds() []BlockKind {
	out := make([]BlockKind, 0, len(knownBlockKinds))
	for k := range knownBlockKinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsKnownBlockKind reports whether k is registered.
func IsKnownBlockKind(k BlockKind) bool { return knownBlockKinds[k] }

// Block is the atomic editable text unit inside a Section.
type Block struct {
	ID         string
	SectionID  string
	CreatedAt  time.Time
	Kind       BlockKind
	Language   string // required
	OrderIndex int
	SourceText string // canonical Markdown, see internal/editor
	Metadata   docvalue.Value
}

// EntityStatus is the open status tag on an Entity (e.g. active, merged, retired).
type EntityStatus string

const (
	EntityStatusActive  EntityStatus = "active"
	EntityStatusMerged  EntityStatus = "merged"
	EntityStatusRetired EntityStatus = "retired"
)

// Entity is a semantic referent independent of any Work.
type Entity struct {
	ID          string
	CreatedAt   time.Time
	TypeTag     string
	Label       string // canonical label
	Properties  docvalue.Value
	Status      EntityStatus
	Notes       string
}

// EntityLabel is a language-specific surface label for an Entity. Unique
// per (EntityID, Language).
type EntityLabel struct {
	ID        string
	EntityID  string
	Language  string
	BaseForm  string
	Aliases   []string
}

// EntityWorkMetadata is a per-Work overlay on an Entity. Primary key is
// (EntityID, WorkID).
type EntityWorkMetadata struct {
	EntityID string
	WorkID   string
	Notes    string
	Metadata docvalue.Value
}

// MentionFeatures describes the grammatical intent of a Mention: case,
// number, role, possessive, and any language-specific extras.
type MentionFeatures struct {
	Case       string
	Number     string
	Role       string
	Possessive bool
	Extra      docvalue.Value
}

// Mention attaches an Entity to a Block in a specific language. Unique
// per (BlockID, EntityID, Language).
type Mention struct {
	ID             string
	BlockID        string
	EntityID       string
	Language       string
	Features       MentionFeatures
	ObservedSurface string // optional: what actually appeared in the text
	CreatedAt      time.Time
}

// AlignmentType tags the relation an alignment represents (e.g. translation,
// paraphrase, back-translation).
type AlignmentType string

// BlockAlignment is a derived, rebuildable, many-to-many relation between
// two Blocks, typically across languages.
type BlockAlignment struct {
	ID            string
	SourceBlockID string
	TargetBlockID string
	Type          AlignmentType
	Confidence    float64
	CreatedAt     time.Time
}

// ReviewSeverity ranks a diagnostic finding's severity.
type ReviewSeverity string

const (
	ReviewSeverityInfo  ReviewSeverity = "info"
	ReviewSeverityWarn  ReviewSeverity = "warn"
	ReviewSeverityError ReviewSeverity = "error"
)

// ReviewScopeKind names what a Review attaches to.
type ReviewScopeKind string

const (
	ReviewScopeWork     ReviewScopeKind = "work"
	ReviewScopeDocument ReviewScopeKind = "document"
	ReviewScopeSection  ReviewScopeKind = "section"
	ReviewScopeBlock    ReviewScopeKind = "block"
)

// Review is a diagnostic finding over some scope.
type Review struct {
	ID          string
	ScopeKind   ReviewScopeKind
	ScopeID     string
	IssueType   string
	Description string
	Severity    ReviewSeverity
	CreatedAt   time.Time
	Metadata    docvalue.Value
}

// SortKey is the deterministic sibling ordering from spec.md §3:
// order_index is a sparse hint; ties break on created_at, then id.
type SortKey struct {
	OrderIndex int
	CreatedAt  time.Time
	ID         string
}

// Less implements the strict total order used by every List operation.
func (k SortKey) Less(other SortKey) bool {
	if k.OrderIndex != other.OrderIndex {
		return k.OrderIndex < other.OrderIndex
	}
	if !k.CreatedAt.Equal(other.CreatedAt) {
		return k.CreatedAt.Before(other.CreatedAt)
	}
	return k.ID < other.ID
}

// SortByKey sorts any slice of items in place given a key extractor,
// enforcing the (order_index, created_at, id) total order from spec.md §3
// and §8 ("listing blocks returns them in strictly non-decreasing order").
func SortByKey[T any](items []T, key func(T) SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]).Less(key(items[j]))
	})
}
