package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// DocumentResult is the stable-field-order projection of a Document.
type DocumentResult struct {
	ID         string         `json:"id"`
	WorkID     string         `json:"work_id"`
	CreatedAt  time.Time      `json:"created_at"`
	Title      string         `json:"title"`
	OrderIndex int            `json:"order_index"`
	Metadata   docvalue.Value `json:"metadata"`
}

func documentResult(d *types.Document) DocumentResult {
	return DocumentResult{ID: d.ID, WorkID: d.WorkID, CreatedAt: d.CreatedAt, Title: d.Title, OrderIndex: d.OrderIndex, Metadata: d.Metadata}
}

// AddDocument is the `doc add` verb: creates a Document under workID,
// assigning order_index as max+1 among existing siblings when order is
// negative (spec.md §4.3).
func AddDocument(ctx context.Context, q dataaccess.Querier, workID, title string, order int, metadata docvalue.Value, opts Options) (*DocumentResult, error) {
	if _, err := dataaccess.ReadWork(ctx, q, workID); err != nil {
		return nil, err
	}
	if order < 0 {
		siblings, err := dataaccess.ListDocuments(ctx, q, workID)
		if err != nil {
			return nil, err
		}
		indices := make([]int, len(siblings))
		for i, s := range siblings {
			indices[i] = s.OrderIndex
		}
		order = nextOrderIndex(indices)
	}
	d := &types.Document{ID: types.NewID(), WorkID: workID, CreatedAt: time.Now().UTC(), Title: title, OrderIndex: order, Metadata: metadata}
	if dryRun(opts) {
		r := documentResult(d)
		return &r, nil
	}
	if err := dataaccess.CreateDocument(ctx, q, d); err != nil {
		return nil, err
	}
	r := documentResult(d)
	return &r, nil
}

// ListDocument is the `doc list` verb.
func ListDocument(ctx context.Context, q dataaccess.Querier, workID string) ([]DocumentResult, error) {
	if _, err := dataaccess.ReadWork(ctx, q, workID); err != nil {
		return nil, err
	}
	ds, err := dataaccess.ListDocuments(ctx, q, workID)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentResult, len(ds))
	for i, d := range ds {
		out[i] = documentResult(d)
	}
	return out, nil
}

// ShowDocument is the `doc show` verb.
func ShowDocument(ctx context.Context, q dataaccess.Querier, id string) (*DocumentResult, error) {
	d, err := dataaccess.ReadDocument(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r := documentResult(d)
	return &r, nil
}

// UpdateDocument is the `doc update` verb: retitles or re-metas a
// Document. Its parent Work and identifier are immutable (spec.md §4.3).
func UpdateDocument(ctx context.Context, q dataaccess.Querier, id, title string, metadata docvalue.Value, opts Options) (*DocumentResult, error) {
	d, err := dataaccess.ReadDocument(ctx, q, id)
	if err != nil {
		return nil, err
	}
	d.Title, d.Metadata = title, metadata
	if dryRun(opts) {
		r := documentResult(d)
		return &r, nil
	}
	if err := dataaccess.UpdateDocument(ctx, q, d); err != nil {
		return nil, err
	}
	r := documentResult(d)
	return &r, nil
}

// ReorderDocument is the `doc reorder` verb: sets a new order_index among
// siblings. It goes through the same UpdateDocument call the teacher's
// dataaccess layer exposes, since order is just another mutable column.
func ReorderDocument(ctx context.Context, q dataaccess.Querier, id string, order int, opts Options) (*DocumentResult, error) {
	d, err := dataaccess.ReadDocument(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, errs.InvalidInputf("order", "order_index must be non-negative")
	}
	d.OrderIndex = order
	if dryRun(opts) {
		r := documentResult(d)
		return &r, nil
	}
	if err := dataaccess.UpdateDocument(ctx, q, d); err != nil {
		return nil, err
	}
	r := documentResult(d)
	return &r, nil
}

// DeleteDocument is the `doc delete` verb: its descendants are the
// Document's top-level Sections.
func DeleteDocument(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadDocument(ctx, q, id); err != nil {
		return err
	}
	sections, err := dataaccess.ListSections(ctx, q, id)
	if err != nil {
		return err
	}
	if len(sections) > 0 && !opts.Force {
		ids := make([]string, len(sections))
		for i, s := range sections {
			ids[i] = s.ID
		}
		return nonEmptyParent("document", id, ids)
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteDocument(ctx, q, id)
}
