package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateEntityWorkMetadata inserts a per-Work overlay on an Entity.
// Primary key is (entity_id, work_id); the catalog calls this "overlay
// set" (spec.md §4.4).
func CreateEntityWorkMetadata(ctx context.Context, q Querier, m *types.EntityWorkMetadata) error {
	meta, err := encodeMeta(m.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO entity_work_metadata (entity_id, work_id, notes, metadata)
		VALUES (?, ?, ?, ?)
	`, m.EntityID, m.WorkID, m.Notes, meta)
	return duplicate("entity work overlay", err)
}

// ReadEntityWorkMetadata fetches the overlay for (entityID, workID), or
// NotFound if the Entity has no overlay for that Work.
func ReadEntityWorkMetadata(ctx context.Context, q Querier, entityID, workID string) (*types.EntityWorkMetadata, error) {
	row := q.QueryRowContext(ctx, `
		SELECT entity_id, work_id, notes, metadata
		FROM entity_work_metadata WHERE entity_id = ? AND work_id = ?
	`, entityID, workID)
	return scanEntityWorkMetadata(row)
}

// ListEntityWorkMetadata returns every overlay recorded for a Work, e.g.
// for export.
func ListEntityWorkMetadata(ctx context.Context, q Querier, workID string) ([]*types.EntityWorkMetadata, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT entity_id, work_id, notes, metadata
		FROM entity_work_metadata WHERE work_id = ?
		ORDER BY entity_id
	`, workID)
	if err != nil {
		return nil, wrap("list entity work overlays", err)
	}
	defer rows.Close()

	var out []*types.EntityWorkMetadata
	for rows.Next() {
		m, err := scanEntityWorkMetadata(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, wrap("list entity work overlays", rows.Err())
}

// UpdateEntityWorkMetadata overwrites an existing overlay's notes and metadata.
func UpdateEntityWorkMetadata(ctx context.Context, q Querier, m *types.EntityWorkMetadata) error {
	meta, err := encodeMeta(m.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update entity work overlay", `
		UPDATE entity_work_metadata SET notes = ?, metadata = ?
		WHERE entity_id = ? AND work_id = ?
	`, m.Notes, meta, m.EntityID, m.WorkID)
}

// DeleteEntityWorkMetadata removes the overlay for (entityID, workID).
func DeleteEntityWorkMetadata(ctx context.Context, q Querier, entityID, workID string) error {
	return execOne(ctx, q, "delete entity work overlay", `
		DELETE FROM entity_work_metadata WHERE entity_id = ? AND work_id = ?
	`, entityID, workID)
}

func scanEntityWorkMetadata(row scannable) (*types.EntityWorkMetadata, error) {
	var m types.EntityWorkMetadata
	var meta []byte
	if err := row.Scan(&m.EntityID, &m.WorkID, &m.Notes, &meta); err != nil {
		return nil, notFound("entity work overlay", "", err)
	}
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	m.Metadata = v
	return &m, nil
}
