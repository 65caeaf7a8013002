package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/types"
)

// Bundle is the canonical JSON export/import shape spec.md §4.4 calls for
// ("import/export: canonical JSON round-trip"). It is Work-scoped: a
// Work's own tree plus every Entity/EntityLabel reachable by a Mention
// from one of its Blocks, so importing a Bundle into an empty cluster
// reproduces everything the exported Work actually displays, without
// pulling in the whole global Entity catalog.
type Bundle struct {
	Work      WorkResult       `json:"work"`
	Documents []DocumentResult `json:"documents"`
	Sections  []SectionResult  `json:"sections"`
	Blocks    []BlockResult    `json:"blocks"`
	Entities  []EntityResult   `json:"entities"`
	Labels    []LabelResult    `json:"labels"`
	Mentions  []MentionResult  `json:"mentions"`
	Overlays  []OverlayResult  `json:"overlays"`
}

// ExportJSON is the `export json` verb.
func ExportJSON(ctx context.Context, q dataaccess.Querier, workID string) (*Bundle, error) {
	w, err := dataaccess.ReadWork(ctx, q, workID)
	if err != nil {
		return nil, err
	}
	b := &Bundle{Work: workResult(w)}

	docs, err := dataaccess.ListDocuments(ctx, q, workID)
	if err != nil {
		return nil, err
	}
	entitySeen := map[string]bool{}

	for _, d := range docs {
		b.Documents = append(b.Documents, documentResult(d))
		if err := collectSectionTree(ctx, q, d.ID, b, entitySeen); err != nil {
			return nil, err
		}
	}

	overlays, err := dataaccess.ListEntityWorkMetadata(ctx, q, workID)
	if err != nil {
		return nil, err
	}
	for _, o := range overlays {
		b.Overlays = append(b.Overlays, overlayResult(o))
	}
	return b, nil
}

// collectSectionTree walks a Document's top-level Sections recursively,
// gathering Sections, Blocks, and the Entities/Labels/Mentions each Block
// references.
func collectSectionTree(ctx context.Context, q dataaccess.Querier, documentID string, b *Bundle, entitySeen map[string]bool) error {
	top, err := dataaccess.ListSections(ctx, q, documentID)
	if err != nil {
		return err
	}
	var walk func(sections []*types.Section) error
	walk = func(sections []*types.Section) error {
		for _, s := range sections {
			b.Sections = append(b.Sections, sectionResult(s))

			blocks, err := dataaccess.ListBlocks(ctx, q, s.ID)
			if err != nil {
				return err
			}
			for _, blk := range blocks {
				b.Blocks = append(b.Blocks, blockResult(blk))

				mentions, err := dataaccess.ListMentionsByBlock(ctx, q, blk.ID)
				if err != nil {
					return err
				}
				for _, m := range mentions {
					b.Mentions = append(b.Mentions, mentionResult(m, ""))
					if entitySeen[m.EntityID] {
						continue
					}
					entitySeen[m.EntityID] = true
					e, err := dataaccess.ReadEntity(ctx, q, m.EntityID)
					if err != nil {
						return err
					}
					b.Entities = append(b.Entities, entityResult(e))
					labels, err := dataaccess.ListEntityLabels(ctx, q, m.EntityID)
					if err != nil {
						return err
					}
					for _, l := range labels {
						b.Labels = append(b.Labels, labelResult(l))
					}
				}
			}

			children, err := dataaccess.ListChildSections(ctx, q, s.ID)
			if err != nil {
				return err
			}
			if err := walk(children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(top)
}

// ImportJSON is the `import json` verb: replays a Bundle's rows through
// Create calls in dependency order (Work, Documents, Sections, Blocks,
// Entities, Labels, Mentions, Overlays) so foreign keys are always
// satisfied when each row lands. A row whose identifier already exists
// surfaces the same Conflict an explicit duplicate create would (spec.md
// §4.4: "creating with an explicit identifier that already exists returns
// a conflict error, not a duplicate").
func ImportJSON(ctx context.Context, q dataaccess.Querier, b *Bundle, opts Options) error {
	if dryRun(opts) {
		return nil
	}
	w := b.Work
	if err := dataaccess.CreateWork(ctx, q, &types.Work{
		ID: w.ID, CreatedAt: w.CreatedAt, Title: w.Title, Description: w.Description,
		DefaultLanguage: w.DefaultLanguage, Metadata: w.Metadata,
	}); err != nil {
		return err
	}
	for _, d := range b.Documents {
		if err := dataaccess.CreateDocument(ctx, q, &types.Document{ID: d.ID, WorkID: d.WorkID, CreatedAt: d.CreatedAt, Title: d.Title, OrderIndex: d.OrderIndex, Metadata: d.Metadata}); err != nil {
			return err
		}
	}
	for _, s := range b.Sections {
		if err := dataaccess.CreateSection(ctx, q, &types.Section{ID: s.ID, DocumentID: s.DocumentID, ParentSectionID: s.ParentSectionID, CreatedAt: s.CreatedAt, Title: s.Title, OrderIndex: s.OrderIndex, Metadata: s.Metadata}); err != nil {
			return err
		}
	}
	for _, blk := range b.Blocks {
		if err := dataaccess.CreateBlock(ctx, q, &types.Block{ID: blk.ID, SectionID: blk.SectionID, CreatedAt: blk.CreatedAt, Kind: blk.Kind, Language: blk.Language, OrderIndex: blk.OrderIndex, SourceText: blk.SourceText, Metadata: blk.Metadata}); err != nil {
			return err
		}
	}
	for _, e := range b.Entities {
		if err := dataaccess.CreateEntity(ctx, q, &types.Entity{ID: e.ID, CreatedAt: e.CreatedAt, TypeTag: e.TypeTag, Label: e.Label, Properties: e.Properties, Status: e.Status, Notes: e.Notes}); err != nil {
			return err
		}
	}
	for _, l := range b.Labels {
		if err := dataaccess.CreateEntityLabel(ctx, q, &types.EntityLabel{ID: l.ID, EntityID: l.EntityID, Language: l.Language, BaseForm: l.BaseForm, Aliases: l.Aliases}); err != nil {
			return err
		}
	}
	for _, m := range b.Mentions {
		if err := dataaccess.CreateMention(ctx, q, &types.Mention{ID: m.ID, BlockID: m.BlockID, EntityID: m.EntityID, Language: m.Language, Features: m.Features, ObservedSurface: m.ObservedSurface, CreatedAt: m.CreatedAt}); err != nil {
			return err
		}
	}
	for _, o := range b.Overlays {
		if err := dataaccess.CreateEntityWorkMetadata(ctx, q, &types.EntityWorkMetadata{EntityID: o.EntityID, WorkID: o.WorkID, Notes: o.Notes, Metadata: o.Metadata}); err != nil {
			return err
		}
	}
	return nil
}

// ExportMarkdown is the `export markdown` verb: concatenates a Work's
// Documents and Sections as ATX headings around each Block's own
// source_text, which is already canonical Markdown (spec.md §4.5) and so
// needs no re-serialization here.
func ExportMarkdown(ctx context.Context, q dataaccess.Querier, workID string) (string, error) {
	w, err := dataaccess.ReadWork(ctx, q, workID)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if w.Title != "" {
		fmt.Fprintf(&out, "# %s\n\n", w.Title)
	}

	docs, err := dataaccess.ListDocuments(ctx, q, workID)
	if err != nil {
		return "", err
	}
	for _, d := range docs {
		if d.Title != "" {
			fmt.Fprintf(&out, "## %s\n\n", d.Title)
		}
		if err := writeSectionMarkdown(ctx, q, d.ID, &out, 3); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}

func writeSectionMarkdown(ctx context.Context, q dataaccess.Querier, documentID string, out *strings.Builder, depth int) error {
	sections, err := dataaccess.ListSections(ctx, q, documentID)
	if err != nil {
		return err
	}
	return writeSections(ctx, q, sections, out, depth)
}

func writeSections(ctx context.Context, q dataaccess.Querier, sections []*types.Section, out *strings.Builder, depth int) error {
	for _, s := range sections {
		if s.Title != "" {
			fmt.Fprintf(out, "%s %s\n\n", strings.Repeat("#", min(depth, 6)), s.Title)
		}
		blocks, err := dataaccess.ListBlocks(ctx, q, s.ID)
		if err != nil {
			return err
		}
		for _, blk := range blocks {
			out.WriteString(blk.SourceText)
			out.WriteString("\n\n")
		}
		children, err := dataaccess.ListChildSections(ctx, q, s.ID)
		if err != nil {
			return err
		}
		if err := writeSections(ctx, q, children, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}
