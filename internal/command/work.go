package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// WorkResult is the stable-field-order projection of a Work for
// structured output (spec.md §4.4: "field order and whitespace are
// fixed").
type WorkResult struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"created_at"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DefaultLanguage string       `json:"default_language"`
	Metadata        docvalue.Value `json:"metadata"`
}

func workResult(w *types.Work) WorkResult {
	return WorkResult{
		ID:              w.ID,
		CreatedAt:       w.CreatedAt,
		Title:           w.Title,
		Description:     w.Description,
		DefaultLanguage: w.DefaultLanguage,
		Metadata:        w.Metadata,
	}
}

// InitWork is the `work init` verb: mints an identifier and creates the
// root Work row that a fresh cluster's per-Work directory is built around.
func InitWork(ctx context.Context, q dataaccess.Querier, title, description, defaultLanguage string, metadata docvalue.Value, opts Options) (*WorkResult, error) {
	if title == "" {
		return nil, errs.InvalidInputf("title", "a Work requires a title")
	}
	w := &types.Work{
		ID:              types.NewID(),
		CreatedAt:       time.Now().UTC(),
		Title:           title,
		Description:     description,
		DefaultLanguage: defaultLanguage,
		Metadata:        metadata,
	}
	if dryRun(opts) {
		r := workResult(w)
		return &r, nil
	}
	if err := dataaccess.CreateWork(ctx, q, w); err != nil {
		return nil, err
	}
	r := workResult(w)
	return &r, nil
}

// ShowWork is the `work show` verb.
func ShowWork(ctx context.Context, q dataaccess.Querier, id string) (*WorkResult, error) {
	w, err := dataaccess.ReadWork(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r := workResult(w)
	return &r, nil
}

// ListWork is the `work list` verb.
func ListWork(ctx context.Context, q dataaccess.Querier) ([]WorkResult, error) {
	ws, err := dataaccess.ListWorks(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]WorkResult, len(ws))
	for i, w := range ws {
		out[i] = workResult(w)
	}
	return out, nil
}

// UpdateWork is the `work update` verb. title/description/defaultLanguage
// are applied as given; pass the existing value to leave a field
// unchanged, matching the teacher's "full struct" update shape
// (internal/dataaccess.UpdateWork overwrites every mutable column).
func UpdateWork(ctx context.Context, q dataaccess.Querier, id, title, description, defaultLanguage string, metadata docvalue.Value, opts Options) (*WorkResult, error) {
	w, err := dataaccess.ReadWork(ctx, q, id)
	if err != nil {
		return nil, err
	}
	w.Title, w.Description, w.DefaultLanguage, w.Metadata = title, description, defaultLanguage, metadata
	if dryRun(opts) {
		r := workResult(w)
		return &r, nil
	}
	if err := dataaccess.UpdateWork(ctx, q, w); err != nil {
		return nil, err
	}
	r := workResult(w)
	return &r, nil
}

// DeleteWork is the `work delete` verb. A Work's descendants are its
// Documents; per spec.md §4.4, deleting with non-empty descendants without
// --force fails enumerating them.
func DeleteWork(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadWork(ctx, q, id); err != nil {
		return err
	}
	docs, err := dataaccess.ListDocuments(ctx, q, id)
	if err != nil {
		return err
	}
	if len(docs) > 0 && !opts.Force {
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
		return nonEmptyParent("work", id, ids)
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteWork(ctx, q, id)
}
