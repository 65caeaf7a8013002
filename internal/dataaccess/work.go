package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateWork inserts the root Work row. A Work's cluster holds exactly one
// such row (spec.md §3: Work is "the root of the hierarchy" and one
// embedded cluster per Work), but the schema does not enforce singularity
// so maintenance tooling can inspect a cluster without assuming shape.
func CreateWork(ctx context.Context, q Querier, w *types.Work) error {
	meta, err := encodeMeta(w.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO works (id, created_at, title, description, default_language, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.ID, w.CreatedAt, w.Title, w.Description, w.DefaultLanguage, meta)
	return duplicate("work", err)
}

// ReadWork fetches one Work by ID, NotFound if absent.
func ReadWork(ctx context.Context, q Querier, id string) (*types.Work, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, created_at, title, description, default_language, metadata
		FROM works WHERE id = ?
	`, id)
	return scanWork(row)
}

// ListWorks returns every Work row, ordered by creation time then id.
func ListWorks(ctx context.Context, q Querier) ([]*types.Work, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, created_at, title, description, default_language, metadata
		FROM works ORDER BY created_at, id
	`)
	if err != nil {
		return nil, wrap("list works", err)
	}
	defer rows.Close()

	var out []*types.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, wrap("list works", rows.Err())
}

// UpdateWork overwrites the mutable fields of an existing Work.
func UpdateWork(ctx context.Context, q Querier, w *types.Work) error {
	meta, err := encodeMeta(w.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update work", `
		UPDATE works SET title = ?, description = ?, default_language = ?, metadata = ?
		WHERE id = ?
	`, w.Title, w.Description, w.DefaultLanguage, meta, w.ID)
}

// DeleteWork removes a Work and cascades to every Document beneath it
// (spec.md §3 ownership/cascade invariants).
func DeleteWork(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete work", `DELETE FROM works WHERE id = ?`, id)
}

func scanWork(row scannable) (*types.Work, error) {
	var w types.Work
	var meta []byte
	if err := row.Scan(&w.ID, &w.CreatedAt, &w.Title, &w.Description, &w.DefaultLanguage, &meta); err != nil {
		return nil, notFound("work", "", err)
	}
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	w.Metadata = v
	return &w, nil
}
