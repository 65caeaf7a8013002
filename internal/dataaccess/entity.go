package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateEntity inserts an Entity. An Entity is conceptually independent
// of any one Work (spec.md §3: "a semantic referent independent of any
// Work") in that nothing ties its identity to a single Document/Section/
// Block tree, but it is still stored in whichever Work's cluster q
// connects to — there is exactly one cluster per Work (§4.1), never a
// separate shared one. EntityWorkMetadata is what lets the same
// conceptual referent carry different notes across Works that each
// happen to record it.
func CreateEntity(ctx context.Context, q Querier, e *types.Entity) error {
	props, err := encodeMeta(e.Properties)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO entities (id, created_at, type_tag, label, properties, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CreatedAt, e.TypeTag, e.Label, props, string(e.Status), e.Notes)
	return duplicate("entity", err)
}

// ReadEntity fetches one Entity by ID.
func ReadEntity(ctx context.Context, q Querier, id string) (*types.Entity, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, created_at, type_tag, label, properties, status, notes
		FROM entities WHERE id = ?
	`, id)
	return scanEntity(row)
}

// ListEntities returns every Entity, optionally filtered by typeTag (empty
// matches all), ordered by label for stable human-facing listings.
func ListEntities(ctx context.Context, q Querier, typeTag string) ([]*types.Entity, error) {
	query := `
		SELECT id, created_at, type_tag, label, properties, status, notes
		FROM entities`
	args := []any{}
	if typeTag != "" {
		query += ` WHERE type_tag = ?`
		args = append(args, typeTag)
	}
	query += ` ORDER BY label, id`

	r, qerr := q.QueryContext(ctx, query, args...)
	if qerr != nil {
		return nil, wrap("list entities", qerr)
	}
	defer r.Close()

	var out []*types.Entity
	for r.Next() {
		e, serr := scanEntity(r)
		if serr != nil {
			return nil, serr
		}
		out = append(out, e)
	}
	return out, wrap("list entities", r.Err())
}

// UpdateEntity overwrites the mutable fields of an existing Entity,
// including status transitions (e.g. marking it merged or retired).
func UpdateEntity(ctx context.Context, q Querier, e *types.Entity) error {
	props, err := encodeMeta(e.Properties)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update entity", `
		UPDATE entities SET type_tag = ?, label = ?, properties = ?, status = ?, notes = ?
		WHERE id = ?
	`, e.TypeTag, e.Label, props, string(e.Status), e.Notes, e.ID)
}

// DeleteEntity removes an Entity, cascading to its EntityLabels,
// EntityWorkMetadata overlays, and Mentions.
func DeleteEntity(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete entity", `DELETE FROM entities WHERE id = ?`, id)
}

func scanEntity(row scannable) (*types.Entity, error) {
	var e types.Entity
	var status string
	var props []byte
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.TypeTag, &e.Label, &props, &status, &e.Notes); err != nil {
		return nil, notFound("entity", "", err)
	}
	e.Status = types.EntityStatus(status)
	v, err := decodeMeta(props)
	if err != nil {
		return nil, err
	}
	e.Properties = v
	return &e, nil
}
