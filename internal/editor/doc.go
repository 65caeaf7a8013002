// Package editor implements the Block Editor Core: a Section-scoped,
// structural-sharing document model over a set of Blocks, a canonical
// Markdown-with-mentions round trip, and a dirty-tracking save protocol
// (spec.md §4.5). It is a library over internal/dataaccess; it never
// opens its own connection to the Storage Layer.
package editor

import (
	"github.com/ikari-pl/littera/internal/types"
)

// Document is the Section-scoped editing surface: one root whose children
// are ordered block Containers, each independently addressable in
// storage by its BlockID (spec.md §4.5: "displays all blocks of a Section
// as one continuous document while keeping blocks independently
// addressable").
type Document struct {
	SectionID  string
	Containers []*Container
}

// Container is one Block rendered into the editor tree. Containers are
// isolating: splitting, joining, and backspace-at-start never cross a
// container boundary (spec.md §4.5). A container's identifier never
// changes in place; replacing a block is delete+create, never an
// in-place identifier change.
type Container struct {
	BlockID  string
	Kind     types.BlockKind
	Language string
	Content  []Content
}

// Content is one block-level node inside a Container: Paragraph, Heading,
// CodeBlock, HR, List, or BlockQuote.
type Content interface{ isContent() }

// Paragraph is a run of inline content terminated by a blank line.
type Paragraph struct{ Inline []Inline }

// Heading is an ATX-style heading (spec.md §4.5: "heading style unifies
// to ATX"), Level 1-6.
type Heading struct {
	Level  int
	Inline []Inline
}

// CodeBlock is raw, unparsed text. A Container whose Kind is
// types.BlockKindCode holds exactly one CodeBlock and nothing else: code
// block containers forbid inline marks and mention nodes (spec.md §4.5).
type CodeBlock struct{ Text string }

// HR is a horizontal rule; it carries no content of its own.
type HR struct{}

// BlockQuote wraps nested block content (spec.md §9 Open Question:
// blockquotes are canonical, preserved rather than flattened).
type BlockQuote struct{ Content []Content }

// List is a unified (spec.md §4.5: "unified list markers") bullet or
// ordered list; each item is one run of inline content.
type List struct {
	Ordered bool
	Items   [][]Inline
}

func (Paragraph) isContent()  {}
func (Heading) isContent()    {}
func (CodeBlock) isContent()  {}
func (HR) isContent()         {}
func (BlockQuote) isContent() {}
func (List) isContent()       {}

// Inline is one inline node: Text, Mark (emphasis/strong/code), or
// Mention.
type Inline interface{ isInline() }

// Text is a run of plain inline text.
type Text struct{ Value string }

// MarkStyle names the kind of inline emphasis a Mark node carries.
type MarkStyle int

const (
	MarkEmphasis MarkStyle = iota // *text*
	MarkStrong                    // **text**
	MarkCode                      // `text`
)

// Mark wraps inline content in a single emphasis style. Spec.md §4.5:
// "emphasis markers unify to a single pair" — Mark nodes do not nest
// within the same style.
type Mark struct {
	Style MarkStyle
	Inner []Inline
}

// Mention is an atomic, non-editable, selectable-as-a-unit inline node
// referencing an Entity (spec.md §4.5). EntityID is an opaque token; an
// unresolved identifier still round-trips, since it is the writer's data,
// not the editor's to validate.
type Mention struct {
	Label    string
	EntityID string
}

func (Text) isInline()    {}
func (Mark) isInline()    {}
func (Mention) isInline() {}

// NewDocument builds a Document from a Section's Blocks, already sorted
// by the caller in the deterministic (order_index, created_at, id) sibling
// order (types.SortByKey). Parsing failures on one Block do not abort the
// whole Document: the Block's raw text is preserved as a single Paragraph
// so a malformed source_text is still visible and editable rather than
// fatal to the whole Section.
func NewDocument(sectionID string, blocks []*types.Block) *Document {
	containers := make([]*Container, 0, len(blocks))
	for _, b := range blocks {
		content, err := Parse(b.Kind, b.SourceText)
		if err != nil {
			content = []Content{Paragraph{Inline: []Inline{Text{Value: b.SourceText}}}}
		}
		containers = append(containers, &Container{
			BlockID:  b.ID,
			Kind:     b.Kind,
			Language: b.Language,
			Content:  content,
		})
	}
	return ensureNonEmpty(&Document{SectionID: sectionID, Containers: containers})
}

// ensureNonEmpty enforces the structural invariant that a Document always
// has at least one Container; deleting the last one inserts an empty
// replacement (spec.md §4.5).
func ensureNonEmpty(d *Document) *Document {
	if len(d.Containers) == 0 {
		d.Containers = []*Container{emptyContainer(types.NewID())}
	}
	return d
}

func emptyContainer(id string) *Container {
	return &Container{
		BlockID: id,
		Kind:    types.BlockKindProse,
		Content: []Content{Paragraph{}},
	}
}
