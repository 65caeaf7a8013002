package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateBlockAlignment inserts a derived, rebuildable cross-block relation
// (spec.md §3: BlockAlignment is "derived, rebuildable, many-to-many").
func CreateBlockAlignment(ctx context.Context, q Querier, a *types.BlockAlignment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO block_alignments (id, source_block_id, target_block_id, type, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.SourceBlockID, a.TargetBlockID, string(a.Type), a.Confidence, a.CreatedAt)
	return duplicate("alignment", err)
}

// ReadBlockAlignment fetches one BlockAlignment by ID.
func ReadBlockAlignment(ctx context.Context, q Querier, id string) (*types.BlockAlignment, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, source_block_id, target_block_id, type, confidence, created_at
		FROM block_alignments WHERE id = ?
	`, id)
	return scanBlockAlignment(row)
}

// ListBlockAlignmentsForBlock returns every alignment where blockID is
// either the source or target, for the block editor's "aligned with" view.
func ListBlockAlignmentsForBlock(ctx context.Context, q Querier, blockID string) ([]*types.BlockAlignment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, source_block_id, target_block_id, type, confidence, created_at
		FROM block_alignments
		WHERE source_block_id = ? OR target_block_id = ?
		ORDER BY created_at, id
	`, blockID, blockID)
	if err != nil {
		return nil, wrap("list alignments", err)
	}
	defer rows.Close()

	var out []*types.BlockAlignment
	for rows.Next() {
		a, err := scanBlockAlignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, wrap("list alignments", rows.Err())
}

// ListAlignmentGaps returns every Block in sectionIDs that has no
// BlockAlignment at all, backing the `alignment gaps` report (spec.md
// §4.4). Blocks with zero alignments, not partial coverage, are gaps.
func ListAlignmentGaps(ctx context.Context, q Querier, sectionIDs []string) ([]*types.Block, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		args = append(args, id)
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, section_id, created_at, kind, language, order_index, source_text, metadata
		FROM blocks
		WHERE section_id IN (`+placeholders(len(sectionIDs))+`)
		  AND id NOT IN (SELECT source_block_id FROM block_alignments)
		  AND id NOT IN (SELECT target_block_id FROM block_alignments)
		ORDER BY section_id, order_index, created_at, id
	`, args...)
	if err != nil {
		return nil, wrap("list alignment gaps", err)
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
	return out, wrap("list alignment gaps", rows.Err())
}

// DeleteBlockAlignment removes one alignment. Alignments are rebuildable
// so callers may freely delete and recompute them.
func DeleteBlockAlignment(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete alignment", `DELETE FROM block_alignments WHERE id = ?`, id)
}

func scanBlockAlignment(row scannable) (*types.BlockAlignment, error) {
	var a types.BlockAlignment
	var typ string
	if err := row.Scan(&a.ID, &a.SourceBlockID, &a.TargetBlockID, &typ, &a.Confidence, &a.CreatedAt); err != nil {
		return nil, notFound("alignment", "", err)
	}
	a.Type = types.AlignmentType(typ)
	return &a, nil
}
