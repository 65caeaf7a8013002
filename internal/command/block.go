package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// BlockResult is the stable-field-order projection of a Block.
type BlockResult struct {
	ID         string         `json:"id"`
	SectionID  string         `json:"section_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Kind       types.BlockKind `json:"kind"`
	Language   string         `json:"language"`
	OrderIndex int            `json:"order_index"`
	SourceText string         `json:"source_text"`
	Metadata   docvalue.Value `json:"metadata"`
}

func blockResult(b *types.Block) BlockResult {
	return BlockResult{
		ID: b.ID, SectionID: b.SectionID, CreatedAt: b.CreatedAt, Kind: b.Kind,
		Language: b.Language, OrderIndex: b.OrderIndex, SourceText: b.SourceText, Metadata: b.Metadata,
	}
}

// AddBlock is the `block add` verb. Language is required (spec.md §3:
// "A Block carries exactly one language tag").
func AddBlock(ctx context.Context, q dataaccess.Querier, sectionID string, kind types.BlockKind, language, sourceText string, order int, metadata docvalue.Value, opts Options) (*BlockResult, error) {
	if language == "" {
		return nil, errs.InvalidInputf("language", "a Block requires a language tag")
	}
	if _, err := dataaccess.ReadSection(ctx, q, sectionID); err != nil {
		return nil, err
	}
	if order < 0 {
		siblings, err := dataaccess.ListBlocks(ctx, q, sectionID)
		if err != nil {
			return nil, err
		}
		indices := make([]int, len(siblings))
		for i, s := range siblings {
			indices[i] = s.OrderIndex
		}
		order = nextOrderIndex(indices)
	}
	b := &types.Block{
		ID: types.NewID(), SectionID: sectionID, CreatedAt: time.Now().UTC(),
		Kind: kind, Language: language, OrderIndex: order, SourceText: sourceText, Metadata: metadata,
	}
	if dryRun(opts) {
		r := blockResult(b)
		return &r, nil
	}
	if err := dataaccess.CreateBlock(ctx, q, b); err != nil {
		return nil, err
	}
	r := blockResult(b)
	return &r, nil
}

// ListBlock is the `block list` verb.
func ListBlock(ctx context.Context, q dataaccess.Querier, sectionID string) ([]BlockResult, error) {
	bs, err := dataaccess.ListBlocks(ctx, q, sectionID)
	if err != nil {
		return nil, err
	}
	out := make([]BlockResult, len(bs))
	for i, b := range bs {
		out[i] = blockResult(b)
	}
	return out, nil
}

// ShowBlock is the `block show` verb.
func ShowBlock(ctx context.Context, q dataaccess.Querier, id string) (*BlockResult, error) {
	b, err := dataaccess.ReadBlock(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r := blockResult(b)
	return &r, nil
}

// UpdateBlock is the `block update` verb. Writing SourceText here is the
// same "only path that touches prose" spec.md §4.3 describes for direct
// CLI/API editing; internal/editor.Session.Save is the other path, and
// both funnel through dataaccess.UpdateBlock.
func UpdateBlock(ctx context.Context, q dataaccess.Querier, id string, kind types.BlockKind, language, sourceText string, metadata docvalue.Value, opts Options) (*BlockResult, error) {
	b, err := dataaccess.ReadBlock(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if language == "" {
		return nil, errs.InvalidInputf("language", "a Block requires a language tag")
	}
	b.Kind, b.Language, b.SourceText, b.Metadata = kind, language, sourceText, metadata
	if dryRun(opts) {
		r := blockResult(b)
		return &r, nil
	}
	if err := dataaccess.UpdateBlock(ctx, q, b); err != nil {
		return nil, err
	}
	r := blockResult(b)
	return &r, nil
}

// ReorderBlock is the `block reorder` verb.
func ReorderBlock(ctx context.Context, q dataaccess.Querier, id string, order int, opts Options) (*BlockResult, error) {
	b, err := dataaccess.ReadBlock(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, errs.InvalidInputf("order", "order_index must be non-negative")
	}
	b.OrderIndex = order
	if dryRun(opts) {
		r := blockResult(b)
		return &r, nil
	}
	if err := dataaccess.UpdateBlock(ctx, q, b); err != nil {
		return nil, err
	}
	r := blockResult(b)
	return &r, nil
}

// BlockBatchItem is one entry in a BatchUpdateBlocks request: either a new
// Block (ID empty), an update to an existing one (ID set, Delete false),
// or a deletion (Delete true).
type BlockBatchItem struct {
	ID         string
	Kind       types.BlockKind
	Language   string
	OrderIndex int
	SourceText string
	Metadata   docvalue.Value
	Delete     bool
}

// BatchUpdateBlocks is the `internal/resource` batch-update verb (spec.md
// §4.6): the same create/update/delete-in-one-pass shape
// internal/editor.Session.Save uses internally, exposed as a standalone
// Command Surface operation for front-ends that want to submit a whole
// Section's worth of edits atomically without going through the editor's
// in-memory session.
func BatchUpdateBlocks(ctx context.Context, q dataaccess.Querier, sectionID string, items []BlockBatchItem, opts Options) ([]BlockResult, error) {
	if _, err := dataaccess.ReadSection(ctx, q, sectionID); err != nil {
		return nil, err
	}
	batch := dataaccess.BatchUpdate{}
	for _, it := range items {
		switch {
		case it.Delete:
			batch.Delete = append(batch.Delete, it.ID)
		case it.ID == "":
			b := &types.Block{
				ID: types.NewID(), SectionID: sectionID, CreatedAt: time.Now().UTC(),
				Kind: it.Kind, Language: it.Language, OrderIndex: it.OrderIndex,
				SourceText: it.SourceText, Metadata: it.Metadata,
			}
			batch.Create = append(batch.Create, b)
		default:
			b, err := dataaccess.ReadBlock(ctx, q, it.ID)
			if err != nil {
				return nil, err
			}
			b.Kind, b.Language, b.OrderIndex, b.SourceText, b.Metadata =
				it.Kind, it.Language, it.OrderIndex, it.SourceText, it.Metadata
			batch.Update = append(batch.Update, b)
		}
	}
	if dryRun(opts) {
		return batchResults(batch), nil
	}
	if err := dataaccess.ApplyBlockBatch(ctx, q, batch); err != nil {
		return nil, err
	}
	return batchResults(batch), nil
}

func batchResults(batch dataaccess.BatchUpdate) []BlockResult {
	out := make([]BlockResult, 0, len(batch.Create)+len(batch.Update))
	for _, b := range batch.Create {
		out = append(out, blockResult(b))
	}
	for _, b := range batch.Update {
		out = append(out, blockResult(b))
	}
	return out
}

// DeleteBlock is the `block delete` verb. A Block's descendants are its
// Mentions, which are purely additive metadata, so deletion never demands
// --force the way parent-row deletes do: there is nothing for the
// non-empty-parent guard to protect here (cascades are a cleanup, not a
// loss of a sibling's own content).
func DeleteBlock(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadBlock(ctx, q, id); err != nil {
		return err
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteBlock(ctx, q, id)
}
