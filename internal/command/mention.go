package command

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/linguistics"
	"github.com/ikari-pl/littera/internal/types"
)

// MentionResult is the stable-field-order projection of a Mention.
type MentionResult struct {
	ID              string               `json:"id"`
	BlockID         string               `json:"block_id"`
	EntityID        string               `json:"entity_id"`
	Language        string               `json:"language"`
	Features        types.MentionFeatures `json:"features"`
	ObservedSurface string               `json:"observed_surface,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	Warning         string               `json:"warning,omitempty"`
}

func mentionResult(m *types.Mention, warning string) MentionResult {
	return MentionResult{
		ID: m.ID, BlockID: m.BlockID, EntityID: m.EntityID, Language: m.Language,
		Features: m.Features, ObservedSurface: m.ObservedSurface, CreatedAt: m.CreatedAt, Warning: warning,
	}
}

// AddMention is the `mention add` verb. A Mention's language need not
// equal its Block's (spec.md §3); when it differs this attaches a warning
// to the result rather than rejecting the write, per the Open Question
// resolution in DESIGN.md ("mention language mismatch is a warning, not
// an error").
func AddMention(ctx context.Context, q dataaccess.Querier, blockID, entityID, language string, features types.MentionFeatures, observedSurface string, opts Options) (*MentionResult, error) {
	if language == "" {
		return nil, errs.InvalidInputf("language", "a Mention requires a language tag")
	}
	block, err := dataaccess.ReadBlock(ctx, q, blockID)
	if err != nil {
		return nil, err
	}
	if _, err := dataaccess.ReadEntity(ctx, q, entityID); err != nil {
		return nil, err
	}
	var warning string
	if block.Language != "" && block.Language != language {
		warning = "mention language " + language + " differs from block language " + block.Language
	}
	m := &types.Mention{
		ID: types.NewID(), BlockID: blockID, EntityID: entityID, Language: language,
		Features: features, ObservedSurface: observedSurface, CreatedAt: time.Now().UTC(),
	}
	if dryRun(opts) {
		r := mentionResult(m, warning)
		return &r, nil
	}
	if err := dataaccess.CreateMention(ctx, q, m); err != nil {
		return nil, err
	}
	r := mentionResult(m, warning)
	return &r, nil
}

// ListMentionByBlock is the `mention list` verb, by Block.
func ListMentionByBlock(ctx context.Context, q dataaccess.Querier, blockID string) ([]MentionResult, error) {
	ms, err := dataaccess.ListMentionsByBlock(ctx, q, blockID)
	if err != nil {
		return nil, err
	}
	out := make([]MentionResult, len(ms))
	for i, m := range ms {
		out[i] = mentionResult(m, "")
	}
	return out, nil
}

// ListMentionByEntity is the `mention list` verb, by Entity.
func ListMentionByEntity(ctx context.Context, q dataaccess.Querier, entityID string) ([]MentionResult, error) {
	ms, err := dataaccess.ListMentionsByEntity(ctx, q, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]MentionResult, len(ms))
	for i, m := range ms {
		out[i] = mentionResult(m, "")
	}
	return out, nil
}

// RenderMentionSurface resolves a Mention's Entity and per-language Label
// and asks provider for the surface form to display at that Mention site
// (spec.md §4.7). This is the one place outside internal/linguistics/simple
// itself that calls a linguistics.Provider — the Editor Core deliberately
// does not (mentions.go: "linguistics, not the editor, owns surface
// forms"), so rendering happens here, on demand, rather than being cached
// onto the Mention row.
func RenderMentionSurface(ctx context.Context, q dataaccess.Querier, mentionID string, provider linguistics.Provider, lctx *linguistics.Context) (*linguistics.Surface, error) {
	m, err := dataaccess.ReadMention(ctx, q, mentionID)
	if err != nil {
		return nil, err
	}
	entity, err := dataaccess.ReadEntity(ctx, q, m.EntityID)
	if err != nil {
		return nil, err
	}
	label, err := dataaccess.ReadEntityLabelByLanguage(ctx, q, m.EntityID, m.Language)
	if err != nil {
		return nil, err
	}
	surface, err := provider.SurfaceForm(ctx, entity.Properties, *label, m.Features, m.Language, lctx)
	if err != nil {
		return nil, err
	}
	return &surface, nil
}

// RenderMentionSurfacesByBlock renders every Mention on a Block
// concurrently (each Mention's surface form is an independent read-then-
// compute with no shared mutable state beyond q and provider, both safe
// for concurrent use: q is the *sql.DB a CLI or HTTP invocation always
// hands to the Command Surface, and provider's own cache is a sync.Map).
// Results preserve ListMentionsByBlock's order; the first error cancels
// the remaining lookups via the errgroup's shared context, the same
// fan-out-then-join shape this package's own dependency on
// golang.org/x/sync grounds in the rest of the retrieved pack (e.g.
// errgroup.WithContext fanning out independent per-item work).
func RenderMentionSurfacesByBlock(ctx context.Context, q dataaccess.Querier, blockID string, provider linguistics.Provider, lctx *linguistics.Context) ([]linguistics.Surface, error) {
	mentions, err := dataaccess.ListMentionsByBlock(ctx, q, blockID)
	if err != nil {
		return nil, err
	}
	out := make([]linguistics.Surface, len(mentions))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range mentions {
		i, m := i, m
		g.Go(func() error {
			entity, err := dataaccess.ReadEntity(gctx, q, m.EntityID)
			if err != nil {
				return err
			}
			label, err := dataaccess.ReadEntityLabelByLanguage(gctx, q, m.EntityID, m.Language)
			if err != nil {
				return err
			}
			s, err := provider.SurfaceForm(gctx, entity.Properties, *label, m.Features, m.Language, lctx)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMention is the `mention remove` verb.
func RemoveMention(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadMention(ctx, q, id); err != nil {
		return err
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteMention(ctx, q, id)
}
