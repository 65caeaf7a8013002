package resource

import (
	"context"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/dataaccess"
)

// AlignmentGaps reports Entity-label coverage gaps across the alignments
// touching sectionIDs (spec.md §8 scenario 6), exposed alongside the CRUD
// matrix since it is a read-only diagnostic, not a resource of its own.
func AlignmentGaps(ctx context.Context, q dataaccess.Querier, sectionIDs []string) (*command.AlignmentGapsResult, error) {
	return command.AlignmentGaps(ctx, q, sectionIDs)
}

// ExportBundle returns a Work's canonical JSON Bundle.
func ExportBundle(ctx context.Context, q dataaccess.Querier, workID string) (*command.Bundle, error) {
	return command.ExportJSON(ctx, q, workID)
}

// ExportMarkdown returns a Work rendered as Markdown.
func ExportMarkdown(ctx context.Context, q dataaccess.Querier, workID string) (string, error) {
	return command.ExportMarkdown(ctx, q, workID)
}

// ImportBundle replays a Bundle's rows into q.
func ImportBundle(ctx context.Context, q dataaccess.Querier, b *command.Bundle, opts command.Options) error {
	return command.ImportJSON(ctx, q, b, opts)
}

// BatchUpdateBlocks applies a mixed create/update/delete set to a
// Section's Blocks in one pass (spec.md §4.6's "batch-update").
func BatchUpdateBlocks(ctx context.Context, q dataaccess.Querier, sectionID string, items []command.BlockBatchItem, opts command.Options) ([]command.BlockResult, error) {
	return command.BatchUpdateBlocks(ctx, q, sectionID, items, opts)
}
