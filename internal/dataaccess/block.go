package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateBlock inserts a Block under its Section.
func CreateBlock(ctx context.Context, q Querier, b *types.Block) error {
	meta, err := encodeMeta(b.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO blocks (id, section_id, created_at, kind, language, order_index, source_text, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.SectionID, b.CreatedAt, string(b.Kind), b.Language, b.OrderIndex, b.SourceText, meta)
	return duplicate("block", err)
}

// ReadBlock fetches one Block by ID.
func ReadBlock(ctx context.Context, q Querier, id string) (*types.Block, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, section_id, created_at, kind, language, order_index, source_text, metadata
		FROM blocks WHERE id = ?
	`, id)
	return scanBlock(row)
}

// ListBlocks returns every Block in sectionID, in deterministic sibling
// order (spec.md §8: "listing blocks returns them in strictly
// non-decreasing order").
func ListBlocks(ctx context.Context, q Querier, sectionID string) ([]*types.Block, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, section_id, created_at, kind, language, order_index, source_text, metadata
		FROM blocks WHERE section_id = ?
		ORDER BY order_index, created_at, id
	`, sectionID)
	if err != nil {
		return nil, wrap("list blocks", err)
	}
	defer rows.Close()

	var out []*types.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, wrap("list blocks", rows.Err())
}

// UpdateBlock overwrites the mutable fields of an existing Block.
func UpdateBlock(ctx context.Context, q Querier, b *types.Block) error {
	meta, err := encodeMeta(b.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update block", `
		UPDATE blocks SET kind = ?, language = ?, order_index = ?, source_text = ?, metadata = ?
		WHERE id = ?
	`, string(b.Kind), b.Language, b.OrderIndex, b.SourceText, meta, b.ID)
}

// DeleteBlock removes a Block, cascading to its Mentions and Alignments.
func DeleteBlock(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete block", `DELETE FROM blocks WHERE id = ?`, id)
}

// BatchUpdate applies a mixed set of block creates, updates, and deletes in
// one pass over a single Querier, adapted from the teacher's
// internal/storage/dolt/batch.go BatchIN helper and intended to run inside
// ppg.Store.WithTx so the editor's save is all-or-nothing (spec.md §4.5:
// "Session.Save diffs current vs. saved snapshot to produce create/update/
// delete sets").
type BatchUpdate struct {
	Create []*types.Block
	Update []*types.Block
	Delete []string
}

// ApplyBlockBatch executes a BatchUpdate's three sets against q, in
// create-then-update-then-delete order so a block's id can be reused by
// its own update in the same batch without ordering surprises.
func ApplyBlockBatch(ctx context.Context, q Querier, batch BatchUpdate) error {
	for _, b := range batch.Create {
		if err := CreateBlock(ctx, q, b); err != nil {
			return err
		}
	}
	for _, b := range batch.Update {
		if err := UpdateBlock(ctx, q, b); err != nil {
			return err
		}
	}
	for _, id := range batch.Delete {
		if err := DeleteBlock(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

func scanBlock(row scannable) (*types.Block, error) {
	var b types.Block
	var kind string
	var meta []byte
	if err := row.Scan(&b.ID, &b.SectionID, &b.CreatedAt, &kind, &b.Language, &b.OrderIndex, &b.SourceText, &meta); err != nil {
		return nil, notFound("block", "", err)
	}
	b.Kind = types.BlockKind(kind)
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	b.Metadata = v
	return &b, nil
}
