package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// EntityResult is the stable-field-order projection of an Entity.
type EntityResult struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	TypeTag    string             `json:"type_tag"`
	Label      string             `json:"label"`
	Properties docvalue.Value     `json:"properties"`
	Status     types.EntityStatus `json:"status"`
	Notes      string             `json:"notes"`
}

func entityResult(e *types.Entity) EntityResult {
	return EntityResult{ID: e.ID, CreatedAt: e.CreatedAt, TypeTag: e.TypeTag, Label: e.Label, Properties: e.Properties, Status: e.Status, Notes: e.Notes}
}

// AddEntity is the `entity add` verb. Entities are independent of any
// Work (spec.md §3), so there is no parent to validate.
func AddEntity(ctx context.Context, q dataaccess.Querier, typeTag, label string, properties docvalue.Value, notes string, opts Options) (*EntityResult, error) {
	if label == "" {
		return nil, errs.InvalidInputf("label", "an Entity requires a canonical label")
	}
	e := &types.Entity{
		ID: types.NewID(), CreatedAt: time.Now().UTC(), TypeTag: typeTag, Label: label,
		Properties: properties, Status: types.EntityStatusActive, Notes: notes,
	}
	if dryRun(opts) {
		r := entityResult(e)
		return &r, nil
	}
	if err := dataaccess.CreateEntity(ctx, q, e); err != nil {
		return nil, err
	}
	r := entityResult(e)
	return &r, nil
}

// ShowEntity is the `entity show` verb.
func ShowEntity(ctx context.Context, q dataaccess.Querier, id string) (*EntityResult, error) {
	e, err := dataaccess.ReadEntity(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r := entityResult(e)
	return &r, nil
}

// ListEntity is the `entity list` verb, optionally filtered by typeTag
// ("" lists every Entity).
func ListEntity(ctx context.Context, q dataaccess.Querier, typeTag string) ([]EntityResult, error) {
	es, err := dataaccess.ListEntities(ctx, q, typeTag)
	if err != nil {
		return nil, err
	}
	out := make([]EntityResult, len(es))
	for i, e := range es {
		out[i] = entityResult(e)
	}
	return out, nil
}

// UpdateEntity is the `entity update` verb.
func UpdateEntity(ctx context.Context, q dataaccess.Querier, id, typeTag, label string, properties docvalue.Value, status types.EntityStatus, notes string, opts Options) (*EntityResult, error) {
	e, err := dataaccess.ReadEntity(ctx, q, id)
	if err != nil {
		return nil, err
	}
	e.TypeTag, e.Label, e.Properties, e.Status, e.Notes = typeTag, label, properties, status, notes
	if dryRun(opts) {
		r := entityResult(e)
		return &r, nil
	}
	if err := dataaccess.UpdateEntity(ctx, q, e); err != nil {
		return nil, err
	}
	r := entityResult(e)
	return &r, nil
}

// DeleteEntity is the `entity delete` verb: cascades to EntityLabels,
// EntityWorkMetadata overlays, and Mentions (spec.md §3: "descendant
// Blocks are unaffected... mention pills with a dangling identifier
// become textual placeholders").
func DeleteEntity(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadEntity(ctx, q, id); err != nil {
		return err
	}
	labels, err := dataaccess.ListEntityLabels(ctx, q, id)
	if err != nil {
		return err
	}
	mentions, err := dataaccess.ListMentionsByEntity(ctx, q, id)
	if err != nil {
		return err
	}
	if (len(labels) > 0 || len(mentions) > 0) && !opts.Force {
		ids := make([]string, 0, len(labels)+len(mentions))
		for _, l := range labels {
			ids = append(ids, l.ID)
		}
		for _, m := range mentions {
			ids = append(ids, m.ID)
		}
		return nonEmptyParent("entity", id, ids)
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteEntity(ctx, q, id)
}
