package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// SectionResult is the stable-field-order projection of a Section.
type SectionResult struct {
	ID              string         `json:"id"`
	DocumentID      string         `json:"document_id"`
	ParentSectionID string         `json:"parent_section_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Title           string         `json:"title"`
	OrderIndex      int            `json:"order_index"`
	Metadata        docvalue.Value `json:"metadata"`
}

func sectionResult(s *types.Section) SectionResult {
	return SectionResult{
		ID: s.ID, DocumentID: s.DocumentID, ParentSectionID: s.ParentSectionID,
		CreatedAt: s.CreatedAt, Title: s.Title, OrderIndex: s.OrderIndex, Metadata: s.Metadata,
	}
}

// siblingsOf lists the siblings a new or reordered Section would compete
// with: top-level Document children when parentID is empty, otherwise the
// nested children of parentID.
func siblingsOf(ctx context.Context, q dataaccess.Querier, documentID, parentID string) ([]*types.Section, error) {
	if parentID == "" {
		return dataaccess.ListSections(ctx, q, documentID)
	}
	return dataaccess.ListChildSections(ctx, q, parentID)
}

// AddSection is the `section add` verb.
func AddSection(ctx context.Context, q dataaccess.Querier, documentID, parentSectionID, title string, order int, metadata docvalue.Value, opts Options) (*SectionResult, error) {
	if _, err := dataaccess.ReadDocument(ctx, q, documentID); err != nil {
		return nil, err
	}
	if parentSectionID != "" {
		parent, err := dataaccess.ReadSection(ctx, q, parentSectionID)
		if err != nil {
			return nil, err
		}
		if parent.DocumentID != documentID {
			return nil, errs.InvalidInputf("parent_section_id", "parent Section %s belongs to a different Document", parentSectionID)
		}
	}
	if order < 0 {
		siblings, err := siblingsOf(ctx, q, documentID, parentSectionID)
		if err != nil {
			return nil, err
		}
		indices := make([]int, len(siblings))
		for i, s := range siblings {
			indices[i] = s.OrderIndex
		}
		order = nextOrderIndex(indices)
	}
	s := &types.Section{
		ID: types.NewID(), DocumentID: documentID, ParentSectionID: parentSectionID,
		CreatedAt: time.Now().UTC(), Title: title, OrderIndex: order, Metadata: metadata,
	}
	if dryRun(opts) {
		r := sectionResult(s)
		return &r, nil
	}
	if err := dataaccess.CreateSection(ctx, q, s); err != nil {
		return nil, err
	}
	r := sectionResult(s)
	return &r, nil
}

// ListSection is the `section list` verb: lists direct children of either
// a Document (parentSectionID empty) or a parent Section.
func ListSection(ctx context.Context, q dataaccess.Querier, documentID, parentSectionID string) ([]SectionResult, error) {
	ss, err := siblingsOf(ctx, q, documentID, parentSectionID)
	if err != nil {
		return nil, err
	}
	out := make([]SectionResult, len(ss))
	for i, s := range ss {
		out[i] = sectionResult(s)
	}
	return out, nil
}

// ShowSection is the `section show` verb.
func ShowSection(ctx context.Context, q dataaccess.Querier, id string) (*SectionResult, error) {
	s, err := dataaccess.ReadSection(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r := sectionResult(s)
	return &r, nil
}

// UpdateSection is the `section update` verb: retitles, re-metas, or
// re-parents a Section (moving it under a different Section or back to
// the Document's top level).
func UpdateSection(ctx context.Context, q dataaccess.Querier, id, title, newParentSectionID string, metadata docvalue.Value, opts Options) (*SectionResult, error) {
	s, err := dataaccess.ReadSection(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if newParentSectionID == id {
		return nil, errs.Invariantf("", "%s", "a Section cannot be its own parent")
	}
	s.Title, s.ParentSectionID, s.Metadata = title, newParentSectionID, metadata
	if dryRun(opts) {
		r := sectionResult(s)
		return &r, nil
	}
	if err := dataaccess.UpdateSection(ctx, q, s); err != nil {
		return nil, err
	}
	r := sectionResult(s)
	return &r, nil
}

// ReorderSection is the `section reorder` verb.
func ReorderSection(ctx context.Context, q dataaccess.Querier, id string, order int, opts Options) (*SectionResult, error) {
	s, err := dataaccess.ReadSection(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, errs.InvalidInputf("order", "order_index must be non-negative")
	}
	s.OrderIndex = order
	if dryRun(opts) {
		r := sectionResult(s)
		return &r, nil
	}
	if err := dataaccess.UpdateSection(ctx, q, s); err != nil {
		return nil, err
	}
	r := sectionResult(s)
	return &r, nil
}

// DeleteSection is the `section delete` verb: its descendants are nested
// child Sections plus this Section's own Blocks.
func DeleteSection(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadSection(ctx, q, id); err != nil {
		return err
	}
	children, err := dataaccess.ListChildSections(ctx, q, id)
	if err != nil {
		return err
	}
	blocks, err := dataaccess.ListBlocks(ctx, q, id)
	if err != nil {
		return err
	}
	if (len(children) > 0 || len(blocks) > 0) && !opts.Force {
		ids := make([]string, 0, len(children)+len(blocks))
		for _, c := range children {
			ids = append(ids, c.ID)
		}
		for _, b := range blocks {
			ids = append(ids, b.ID)
		}
		return nonEmptyParent("section", id, ids)
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteSection(ctx, q, id)
}
