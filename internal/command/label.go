package command

import (
	"context"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// LabelResult is the stable-field-order projection of an EntityLabel.
type LabelResult struct {
	ID       string   `json:"id"`
	EntityID string   `json:"entity_id"`
	Language string   `json:"language"`
	BaseForm string   `json:"base_form"`
	Aliases  []string `json:"aliases"`
}

func labelResult(l *types.EntityLabel) LabelResult {
	return LabelResult{ID: l.ID, EntityID: l.EntityID, Language: l.Language, BaseForm: l.BaseForm, Aliases: l.Aliases}
}

// SetLabel is the `label set` verb: creates or overwrites the single
// EntityLabel for (entityID, language), the uniqueness invariant from
// spec.md §3. Idempotent at the observable-state level per spec.md §4.4:
// setting to the same base form/aliases is a no-op in effect even though
// it still issues the write.
func SetLabel(ctx context.Context, q dataaccess.Querier, entityID, language, baseForm string, aliases []string, opts Options) (*LabelResult, error) {
	if language == "" {
		return nil, errs.InvalidInputf("language", "a label requires a language tag")
	}
	if _, err := dataaccess.ReadEntity(ctx, q, entityID); err != nil {
		return nil, err
	}
	existing, err := dataaccess.ReadEntityLabelByLanguage(ctx, q, entityID, language)
	if err != nil && errs.KindOf(err) != errs.NotFound {
		return nil, err
	}
	if existing != nil {
		existing.BaseForm, existing.Aliases = baseForm, aliases
		if dryRun(opts) {
			r := labelResult(existing)
			return &r, nil
		}
		if err := dataaccess.UpdateEntityLabel(ctx, q, existing); err != nil {
			return nil, err
		}
		r := labelResult(existing)
		return &r, nil
	}
	l := &types.EntityLabel{ID: types.NewID(), EntityID: entityID, Language: language, BaseForm: baseForm, Aliases: aliases}
	if dryRun(opts) {
		r := labelResult(l)
		return &r, nil
	}
	if err := dataaccess.CreateEntityLabel(ctx, q, l); err != nil {
		return nil, err
	}
	r := labelResult(l)
	return &r, nil
}

// ShowLabel is the `label show` verb, by language within one Entity.
func ShowLabel(ctx context.Context, q dataaccess.Querier, entityID, language string) (*LabelResult, error) {
	l, err := dataaccess.ReadEntityLabelByLanguage(ctx, q, entityID, language)
	if err != nil {
		return nil, err
	}
	r := labelResult(l)
	return &r, nil
}

// ListLabel lists every EntityLabel for an Entity (one per language).
func ListLabel(ctx context.Context, q dataaccess.Querier, entityID string) ([]LabelResult, error) {
	ls, err := dataaccess.ListEntityLabels(ctx, q, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]LabelResult, len(ls))
	for i, l := range ls {
		out[i] = labelResult(l)
	}
	return out, nil
}

// DeleteLabel is the `label delete` verb.
func DeleteLabel(ctx context.Context, q dataaccess.Querier, entityID, language string, opts Options) error {
	l, err := dataaccess.ReadEntityLabelByLanguage(ctx, q, entityID, language)
	if err != nil {
		return err
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteEntityLabel(ctx, q, l.ID)
}
