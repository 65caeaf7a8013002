package command

import (
	"context"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// OverlayResult is the stable-field-order projection of an
// EntityWorkMetadata overlay.
type OverlayResult struct {
	EntityID string         `json:"entity_id"`
	WorkID   string         `json:"work_id"`
	Notes    string         `json:"notes"`
	Metadata docvalue.Value `json:"metadata"`
}

func overlayResult(m *types.EntityWorkMetadata) OverlayResult {
	return OverlayResult{EntityID: m.EntityID, WorkID: m.WorkID, Notes: m.Notes, Metadata: m.Metadata}
}

// SetOverlay is the `overlay set` verb: creates or updates the per-Work
// overlay on an Entity, primary-keyed on (EntityID, WorkID) per spec.md §3.
func SetOverlay(ctx context.Context, q dataaccess.Querier, entityID, workID, notes string, metadata docvalue.Value, opts Options) (*OverlayResult, error) {
	if _, err := dataaccess.ReadEntity(ctx, q, entityID); err != nil {
		return nil, err
	}
	if _, err := dataaccess.ReadWork(ctx, q, workID); err != nil {
		return nil, err
	}
	existing, err := dataaccess.ReadEntityWorkMetadata(ctx, q, entityID, workID)
	if err != nil && errs.KindOf(err) != errs.NotFound {
		return nil, err
	}
	m := &types.EntityWorkMetadata{EntityID: entityID, WorkID: workID, Notes: notes, Metadata: metadata}
	if dryRun(opts) {
		r := overlayResult(m)
		return &r, nil
	}
	if existing != nil {
		err = dataaccess.UpdateEntityWorkMetadata(ctx, q, m)
	} else {
		err = dataaccess.CreateEntityWorkMetadata(ctx, q, m)
	}
	if err != nil {
		return nil, err
	}
	r := overlayResult(m)
	return &r, nil
}

// ShowOverlay is the `overlay show` verb.
func ShowOverlay(ctx context.Context, q dataaccess.Querier, entityID, workID string) (*OverlayResult, error) {
	m, err := dataaccess.ReadEntityWorkMetadata(ctx, q, entityID, workID)
	if err != nil {
		return nil, err
	}
	r := overlayResult(m)
	return &r, nil
}

// DeleteOverlay is the `overlay delete` verb.
func DeleteOverlay(ctx context.Context, q dataaccess.Querier, entityID, workID string, opts Options) error {
	if _, err := dataaccess.ReadEntityWorkMetadata(ctx, q, entityID, workID); err != nil {
		return err
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteEntityWorkMetadata(ctx, q, entityID, workID)
}
