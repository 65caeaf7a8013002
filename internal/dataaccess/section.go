package dataaccess

import (
	"context"
	"database/sql"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateSection inserts a Section, optionally nested under a parent
// Section in the same Document (spec.md §3: ParentSectionID empty means a
// direct child of the Document).
func CreateSection(ctx context.Context, q Querier, s *types.Section) error {
	meta, err := encodeMeta(s.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO sections (id, document_id, parent_section_id, created_at, title, order_index, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.DocumentID, nullableString(s.ParentSectionID), s.CreatedAt, s.Title, s.OrderIndex, meta)
	return duplicate("section", err)
}

// ReadSection fetches one Section by ID.
func ReadSection(ctx context.Context, q Querier, id string) (*types.Section, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, document_id, parent_section_id, created_at, title, order_index, metadata
		FROM sections WHERE id = ?
	`, id)
	return scanSection(row)
}

// ListSections returns every Section directly under documentID (top-level,
// ParentSectionID empty), in deterministic sibling order.
func ListSections(ctx context.Context, q Querier, documentID string) ([]*types.Section, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, document_id, parent_section_id, created_at, title, order_index, metadata
		FROM sections WHERE document_id = ? AND parent_section_id IS NULL
		ORDER BY order_index, created_at, id
	`, documentID)
	return collectSections(rows, err)
}

// ListChildSections returns every Section nested directly under parentID.
func ListChildSections(ctx context.Context, q Querier, parentID string) ([]*types.Section, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, document_id, parent_section_id, created_at, title, order_index, metadata
		FROM sections WHERE parent_section_id = ?
		ORDER BY order_index, created_at, id
	`, parentID)
	return collectSections(rows, err)
}

func collectSections(rows *sql.Rows, err error) ([]*types.Section, error) {
	if err != nil {
		return nil, wrap("list sections", err)
	}
	defer rows.Close()

	var out []*types.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, wrap("list sections", rows.Err())
}

// UpdateSection overwrites the mutable fields of an existing Section,
// including re-parenting (moving it under a different Section or to the
// Document's top level).
func UpdateSection(ctx context.Context, q Querier, s *types.Section) error {
	meta, err := encodeMeta(s.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update section", `
		UPDATE sections SET parent_section_id = ?, title = ?, order_index = ?, metadata = ?
		WHERE id = ?
	`, nullableString(s.ParentSectionID), s.Title, s.OrderIndex, meta, s.ID)
}

// DeleteSection removes a Section and cascades to its nested Sections and
// Blocks.
func DeleteSection(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete section", `DELETE FROM sections WHERE id = ?`, id)
}

func scanSection(row scannable) (*types.Section, error) {
	var s types.Section
	var parent sql.NullString
	var meta []byte
	if err := row.Scan(&s.ID, &s.DocumentID, &parent, &s.CreatedAt, &s.Title, &s.OrderIndex, &meta); err != nil {
		return nil, notFound("section", "", err)
	}
	s.ParentSectionID = parent.String
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	s.Metadata = v
	return &s, nil
}

// nullableString converts an empty Go string to a SQL NULL, matching the
// schema's optional parent_section_id column.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
