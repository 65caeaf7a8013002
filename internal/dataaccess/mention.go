package dataaccess

import (
	"context"
	"database/sql"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateMention attaches an Entity to a Block in a language. Unique per
// (block_id, entity_id, language); a repeat Create is a Conflict, matching
// the ux_mention index from spec.md §4.2.
func CreateMention(ctx context.Context, q Querier, m *types.Mention) error {
	extra, err := encodeMeta(m.Features.Extra)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO mentions (
			id, block_id, entity_id, language,
			feature_case, feature_number, feature_role, feature_possessive, feature_extra,
			observed_surface, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.BlockID, m.EntityID, m.Language,
		nullableString(m.Features.Case), nullableString(m.Features.Number), nullableString(m.Features.Role),
		m.Features.Possessive, extra, nullableString(m.ObservedSurface), m.CreatedAt)
	return duplicate("mention", err)
}

// ReadMention fetches one Mention by ID.
func ReadMention(ctx context.Context, q Querier, id string) (*types.Mention, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, block_id, entity_id, language,
			feature_case, feature_number, feature_role, feature_possessive, feature_extra,
			observed_surface, created_at
		FROM mentions WHERE id = ?
	`, id)
	return scanMention(row)
}

// ListMentionsByBlock returns every Mention attached to blockID.
func ListMentionsByBlock(ctx context.Context, q Querier, blockID string) ([]*types.Mention, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, block_id, entity_id, language,
			feature_case, feature_number, feature_role, feature_possessive, feature_extra,
			observed_surface, created_at
		FROM mentions WHERE block_id = ?
		ORDER BY created_at, id
	`, blockID)
	return collectMentions(rows, err)
}

// ListMentionsByEntity returns every Mention referencing entityID, the
// query the "entity usages" view and alignment-gap analysis rely on.
func ListMentionsByEntity(ctx context.Context, q Querier, entityID string) ([]*types.Mention, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, block_id, entity_id, language,
			feature_case, feature_number, feature_role, feature_possessive, feature_extra,
			observed_surface, created_at
		FROM mentions WHERE entity_id = ?
		ORDER BY created_at, id
	`, entityID)
	return collectMentions(rows, err)
}

func collectMentions(rows *sql.Rows, err error) ([]*types.Mention, error) {
	if err != nil {
		return nil, wrap("list mentions", err)
	}
	defer rows.Close()

	var out []*types.Mention
	for rows.Next() {
		m, err := scanMention(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, wrap("list mentions", rows.Err())
}

// DeleteMention removes a Mention. Mentions have no Update: spec.md §4.4
// lists only `mention {add,list,remove}` since a changed grammatical
// reading is a new Mention, not an edit of one.
func DeleteMention(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete mention", `DELETE FROM mentions WHERE id = ?`, id)
}

func scanMention(row scannable) (*types.Mention, error) {
	var m types.Mention
	var caseVal, number, role, surface sql.NullString
	var extra []byte
	if err := row.Scan(&m.ID, &m.BlockID, &m.EntityID, &m.Language,
		&caseVal, &number, &role, &m.Features.Possessive, &extra,
		&surface, &m.CreatedAt); err != nil {
		return nil, notFound("mention", "", err)
	}
	m.Features.Case = caseVal.String
	m.Features.Number = number.String
	m.Features.Role = role.String
	m.ObservedSurface = surface.String
	v, err := decodeMeta(extra)
	if err != nil {
		return nil, err
	}
	m.Features.Extra = v
	return &m, nil
}
