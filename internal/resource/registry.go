package resource

import (
	"context"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/types"
)

// funcs adapts a set of closures to Lister/Reader/Writer, so each Kind's
// wiring below reads as a flat table instead of ten near-identical named
// types.
type funcs struct {
	list   func(ctx context.Context, q dataaccess.Querier, params Params) (any, error)
	read   func(ctx context.Context, q dataaccess.Querier, id string) (any, error)
	create func(ctx context.Context, q dataaccess.Querier, params Params, body Body, opts command.Options) (any, error)
	update func(ctx context.Context, q dataaccess.Querier, id string, params Params, body Body, opts command.Options) (any, error)
	del    func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error
}

func (f funcs) List(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
	return f.list(ctx, q, params)
}
func (f funcs) Read(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
	return f.read(ctx, q, id)
}
func (f funcs) Create(ctx context.Context, q dataaccess.Querier, params Params, body Body, opts command.Options) (any, error) {
	return f.create(ctx, q, params, body, opts)
}
func (f funcs) Update(ctx context.Context, q dataaccess.Querier, id string, params Params, body Body, opts command.Options) (any, error) {
	return f.update(ctx, q, id, params, body, opts)
}
func (f funcs) Delete(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
	return f.del(ctx, q, id, opts)
}

// NewRegistry builds the full resource matrix over internal/command, one
// entry per noun in spec.md §4.3's hierarchy plus the semantic-graph and
// diagnostic nouns from §4.4.
func NewRegistry() Registry {
	r := Registry{}

	workFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, _ Params) (any, error) {
			return command.ListWork(ctx, q)
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			return command.ShowWork(ctx, q, id)
		},
		create: func(ctx context.Context, q dataaccess.Querier, _ Params, b Body, opts command.Options) (any, error) {
			return command.InitWork(ctx, q, body(b, "title"), body(b, "description"), body(b, "default_language"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, _ Params, b Body, opts command.Options) (any, error) {
			return command.UpdateWork(ctx, q, id, body(b, "title"), body(b, "description"), body(b, "default_language"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteWork(ctx, q, id, opts)
		},
	}
	r[KindWork] = Resource{Kind: KindWork, Lister: workFuncs, Reader: workFuncs, Writer: workFuncs}

	documentFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListDocument(ctx, q, params["work_id"])
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			return command.ShowDocument(ctx, q, id)
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			return command.AddDocument(ctx, q, params["work_id"], body(b, "title"), bodyInt(b, "order_index", -1), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, params Params, b Body, opts command.Options) (any, error) {
			if _, ok := b["order_index"]; ok && len(b) == 1 {
				return command.ReorderDocument(ctx, q, id, bodyInt(b, "order_index", 0), opts)
			}
			return command.UpdateDocument(ctx, q, id, body(b, "title"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteDocument(ctx, q, id, opts)
		},
	}
	r[KindDocument] = Resource{Kind: KindDocument, Lister: documentFuncs, Reader: documentFuncs, Writer: documentFuncs}

	sectionFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListSection(ctx, q, params["document_id"], params["parent_id"])
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			return command.ShowSection(ctx, q, id)
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			return command.AddSection(ctx, q, params["document_id"], body(b, "parent_section_id"), body(b, "title"), bodyInt(b, "order_index", -1), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, params Params, b Body, opts command.Options) (any, error) {
			if _, ok := b["order_index"]; ok && len(b) == 1 {
				return command.ReorderSection(ctx, q, id, bodyInt(b, "order_index", 0), opts)
			}
			return command.UpdateSection(ctx, q, id, body(b, "title"), body(b, "parent_section_id"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteSection(ctx, q, id, opts)
		},
	}
	r[KindSection] = Resource{Kind: KindSection, Lister: sectionFuncs, Reader: sectionFuncs, Writer: sectionFuncs}

	blockFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListBlock(ctx, q, params["section_id"])
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			return command.ShowBlock(ctx, q, id)
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			return command.AddBlock(ctx, q, params["section_id"], types.BlockKind(body(b, "kind")), body(b, "language"), body(b, "source_text"), bodyInt(b, "order_index", -1), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, params Params, b Body, opts command.Options) (any, error) {
			if _, ok := b["order_index"]; ok && len(b) == 1 {
				return command.ReorderBlock(ctx, q, id, bodyInt(b, "order_index", 0), opts)
			}
			return command.UpdateBlock(ctx, q, id, types.BlockKind(body(b, "kind")), body(b, "language"), body(b, "source_text"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteBlock(ctx, q, id, opts)
		},
	}
	r[KindBlock] = Resource{Kind: KindBlock, Lister: blockFuncs, Reader: blockFuncs, Writer: blockFuncs}

	entityFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListEntity(ctx, q, params["type"])
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			return command.ShowEntity(ctx, q, id)
		},
		create: func(ctx context.Context, q dataaccess.Querier, _ Params, b Body, opts command.Options) (any, error) {
			return command.AddEntity(ctx, q, body(b, "type"), body(b, "label"), docvalue.FromStringMap(bodyMeta(b, "properties")), body(b, "notes"), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, _ Params, b Body, opts command.Options) (any, error) {
			return command.UpdateEntity(ctx, q, id, body(b, "type"), body(b, "label"), docvalue.FromStringMap(bodyMeta(b, "properties")), types.EntityStatus(body(b, "status")), body(b, "notes"), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteEntity(ctx, q, id, opts)
		},
	}
	r[KindEntity] = Resource{Kind: KindEntity, Lister: entityFuncs, Reader: entityFuncs, Writer: entityFuncs}

	labelFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListLabel(ctx, q, params["entity_id"])
		},
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			entityID, language := splitCompoundID(id)
			return command.ShowLabel(ctx, q, entityID, language)
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			return command.SetLabel(ctx, q, params["entity_id"], body(b, "language"), body(b, "base_form"), bodyStrings(b, "aliases"), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, _ Params, b Body, opts command.Options) (any, error) {
			entityID, language := splitCompoundID(id)
			return command.SetLabel(ctx, q, entityID, language, body(b, "base_form"), bodyStrings(b, "aliases"), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			entityID, language := splitCompoundID(id)
			return command.DeleteLabel(ctx, q, entityID, language, opts)
		},
	}
	r[KindLabel] = Resource{Kind: KindLabel, Lister: labelFuncs, Reader: labelFuncs, Writer: labelFuncs}

	overlayFuncs := funcs{
		read: func(ctx context.Context, q dataaccess.Querier, id string) (any, error) {
			entityID, workID := splitCompoundID(id)
			return command.ShowOverlay(ctx, q, entityID, workID)
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			return command.SetOverlay(ctx, q, params["entity_id"], body(b, "work_id"), body(b, "notes"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, _ Params, b Body, opts command.Options) (any, error) {
			entityID, workID := splitCompoundID(id)
			return command.SetOverlay(ctx, q, entityID, workID, body(b, "notes"), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			entityID, workID := splitCompoundID(id)
			return command.DeleteOverlay(ctx, q, entityID, workID, opts)
		},
	}
	r[KindOverlay] = Resource{Kind: KindOverlay, Reader: overlayFuncs, Writer: overlayFuncs}

	mentionFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			if entityID := params["entity_id"]; entityID != "" {
				return command.ListMentionByEntity(ctx, q, entityID)
			}
			return command.ListMentionByBlock(ctx, q, params["block_id"])
		},
		create: func(ctx context.Context, q dataaccess.Querier, params Params, b Body, opts command.Options) (any, error) {
			features := types.MentionFeatures{
				Case:       body(b, "case"),
				Number:     body(b, "number"),
				Role:       body(b, "role"),
				Possessive: bodyBool(b, "possessive"),
			}
			return command.AddMention(ctx, q, params["block_id"], body(b, "entity_id"), body(b, "language"), features, body(b, "observed_surface"), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.RemoveMention(ctx, q, id, opts)
		},
	}
	r[KindMention] = Resource{Kind: KindMention, Lister: mentionFuncs, Writer: mentionFuncs}

	alignmentFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListAlignment(ctx, q, params["block_id"])
		},
		create: func(ctx context.Context, q dataaccess.Querier, _ Params, b Body, opts command.Options) (any, error) {
			return command.AddAlignment(ctx, q, body(b, "source_block_id"), body(b, "target_block_id"), types.AlignmentType(body(b, "type")), bodyFloat(b, "confidence", 1.0), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteAlignment(ctx, q, id, opts)
		},
	}
	r[KindAlignment] = Resource{Kind: KindAlignment, Lister: alignmentFuncs, Writer: alignmentFuncs}

	reviewFuncs := funcs{
		list: func(ctx context.Context, q dataaccess.Querier, params Params) (any, error) {
			return command.ListReview(ctx, q, types.ReviewScopeKind(params["scope_kind"]), params["scope_id"])
		},
		create: func(ctx context.Context, q dataaccess.Querier, _ Params, b Body, opts command.Options) (any, error) {
			return command.AddReview(ctx, q, types.ReviewScopeKind(body(b, "scope_kind")), body(b, "scope_id"), body(b, "issue_type"), body(b, "description"), types.ReviewSeverity(body(b, "severity")), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		update: func(ctx context.Context, q dataaccess.Querier, id string, _ Params, b Body, opts command.Options) (any, error) {
			return command.UpdateReview(ctx, q, id, body(b, "issue_type"), body(b, "description"), types.ReviewSeverity(body(b, "severity")), docvalue.FromStringMap(bodyMeta(b, "metadata")), opts)
		},
		del: func(ctx context.Context, q dataaccess.Querier, id string, opts command.Options) error {
			return command.DeleteReview(ctx, q, id, opts)
		},
	}
	r[KindReview] = Resource{Kind: KindReview, Lister: reviewFuncs, Writer: reviewFuncs}

	return r
}

// splitCompoundID splits the "entityID:rest" shape used for resources
// whose natural key is a pair rather than a minted id (Label's
// (EntityID, Language), Overlay's (EntityID, WorkID)).
func splitCompoundID(id string) (string, string) {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			return id[:i], id[i+1:]
		}
	}
	return id, ""
}
