package dataaccess

import (
	"context"
	"encoding/json"

	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// CreateEntityLabel inserts a language-specific label for an Entity.
// Unique per (entity_id, language): a second Create for the same pair is a
// Conflict, use UpdateEntityLabel to change an existing one.
func CreateEntityLabel(ctx context.Context, q Querier, l *types.EntityLabel) error {
	aliases, err := encodeAliases(l.Aliases)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO entity_labels (id, entity_id, language, base_form, aliases)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.EntityID, l.Language, l.BaseForm, aliases)
	return duplicate("entity label", err)
}

// ReadEntityLabel fetches one EntityLabel by ID.
func ReadEntityLabel(ctx context.Context, q Querier, id string) (*types.EntityLabel, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, entity_id, language, base_form, aliases
		FROM entity_labels WHERE id = ?
	`, id)
	return scanEntityLabel(row)
}

// ReadEntityLabelByLanguage fetches the EntityLabel for (entityID,
// language), leaning on the ux_entity_label unique index.
func ReadEntityLabelByLanguage(ctx context.Context, q Querier, entityID, language string) (*types.EntityLabel, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, entity_id, language, base_form, aliases
		FROM entity_labels WHERE entity_id = ? AND language = ?
	`, entityID, language)
	return scanEntityLabel(row)
}

// ListEntityLabels returns every language label recorded for entityID.
func ListEntityLabels(ctx context.Context, q Querier, entityID string) ([]*types.EntityLabel, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, entity_id, language, base_form, aliases
		FROM entity_labels WHERE entity_id = ?
		ORDER BY language
	`, entityID)
	if err != nil {
		return nil, wrap("list entity labels", err)
	}
	defer rows.Close()

	var out []*types.EntityLabel
	for rows.Next() {
		l, err := scanEntityLabel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, wrap("list entity labels", rows.Err())
}

// UpdateEntityLabel overwrites an existing label's base form and aliases.
func UpdateEntityLabel(ctx context.Context, q Querier, l *types.EntityLabel) error {
	aliases, err := encodeAliases(l.Aliases)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update entity label", `
		UPDATE entity_labels SET base_form = ?, aliases = ? WHERE id = ?
	`, l.BaseForm, aliases, l.ID)
}

// DeleteEntityLabel removes one language label from an Entity.
func DeleteEntityLabel(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete entity label", `DELETE FROM entity_labels WHERE id = ?`, id)
}

func scanEntityLabel(row scannable) (*types.EntityLabel, error) {
	var l types.EntityLabel
	var aliases []byte
	if err := row.Scan(&l.ID, &l.EntityID, &l.Language, &l.BaseForm, &aliases); err != nil {
		return nil, notFound("entity label", "", err)
	}
	a, err := decodeAliases(aliases)
	if err != nil {
		return nil, err
	}
	l.Aliases = a
	return &l, nil
}

func encodeAliases(aliases []string) ([]byte, error) {
	if aliases == nil {
		aliases = []string{}
	}
	b, err := json.Marshal(aliases)
	if err != nil {
		return nil, errs.Internalf(err, "encode aliases")
	}
	return b, nil
}

func decodeAliases(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var aliases []string
	if err := json.Unmarshal(b, &aliases); err != nil {
		return nil, errs.Internalf(err, "decode aliases")
	}
	return aliases, nil
}
