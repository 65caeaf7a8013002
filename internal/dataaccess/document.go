package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateDocument inserts a Document under its Work.
func CreateDocument(ctx context.Context, q Querier, d *types.Document) error {
	meta, err := encodeMeta(d.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO documents (id, work_id, created_at, title, order_index, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.WorkID, d.CreatedAt, d.Title, d.OrderIndex, meta)
	return duplicate("document", err)
}

// ReadDocument fetches one Document by ID.
func ReadDocument(ctx context.Context, q Querier, id string) (*types.Document, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, work_id, created_at, title, order_index, metadata
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// ListDocuments returns every Document belonging to workID, in the
// deterministic (order_index, created_at, id) sibling order from
// spec.md §3.
func ListDocuments(ctx context.Context, q Querier, workID string) ([]*types.Document, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, work_id, created_at, title, order_index, metadata
		FROM documents WHERE work_id = ?
		ORDER BY order_index, created_at, id
	`, workID)
	if err != nil {
		return nil, wrap("list documents", err)
	}
	defer rows.Close()

	var out []*types.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, wrap("list documents", rows.Err())
}

// UpdateDocument overwrites the mutable fields of an existing Document.
// Reordering goes through the same call: callers recompute OrderIndex and
// pass the full struct, matching the teacher's single-statement update
// shape rather than a bespoke "move" verb at this layer.
func UpdateDocument(ctx context.Context, q Querier, d *types.Document) error {
	meta, err := encodeMeta(d.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update document", `
		UPDATE documents SET title = ?, order_index = ?, metadata = ?
		WHERE id = ?
	`, d.Title, d.OrderIndex, meta, d.ID)
}

// DeleteDocument removes a Document and cascades to every Section beneath it.
func DeleteDocument(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete document", `DELETE FROM documents WHERE id = ?`, id)
}

func scanDocument(row scannable) (*types.Document, error) {
	var d types.Document
	var meta []byte
	if err := row.Scan(&d.ID, &d.WorkID, &d.CreatedAt, &d.Title, &d.OrderIndex, &meta); err != nil {
		return nil, notFound("document", "", err)
	}
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	d.Metadata = v
	return &d, nil
}
