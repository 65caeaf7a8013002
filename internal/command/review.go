package command

import (
	"context"
	"time"

	"github.com/ikari-pl/littera/internal/dataaccess"
	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/types"
)

// ReviewResult is the stable-field-order projection of a Review.
type ReviewResult struct {
	ID          string                 `json:"id"`
	ScopeKind   types.ReviewScopeKind  `json:"scope_kind"`
	ScopeID     string                 `json:"scope_id"`
	IssueType   string                 `json:"issue_type"`
	Description string                 `json:"description"`
	Severity    types.ReviewSeverity   `json:"severity"`
	CreatedAt   time.Time              `json:"created_at"`
	Metadata    docvalue.Value         `json:"metadata"`
}

func reviewResult(r *types.Review) ReviewResult {
	return ReviewResult{
		ID: r.ID, ScopeKind: r.ScopeKind, ScopeID: r.ScopeID, IssueType: r.IssueType,
		Description: r.Description, Severity: r.Severity, CreatedAt: r.CreatedAt, Metadata: r.Metadata,
	}
}

// AddReview is the `review add` verb: records a diagnostic finding over a
// scope (Work/Document/Section/Block per spec.md §3).
func AddReview(ctx context.Context, q dataaccess.Querier, scopeKind types.ReviewScopeKind, scopeID, issueType, description string, severity types.ReviewSeverity, metadata docvalue.Value, opts Options) (*ReviewResult, error) {
	r := &types.Review{
		ID: types.NewID(), ScopeKind: scopeKind, ScopeID: scopeID, IssueType: issueType,
		Description: description, Severity: severity, CreatedAt: time.Now().UTC(), Metadata: metadata,
	}
	if dryRun(opts) {
		res := reviewResult(r)
		return &res, nil
	}
	if err := dataaccess.CreateReview(ctx, q, r); err != nil {
		return nil, err
	}
	res := reviewResult(r)
	return &res, nil
}

// ListReview is the `review list` verb, for one scope.
func ListReview(ctx context.Context, q dataaccess.Querier, scopeKind types.ReviewScopeKind, scopeID string) ([]ReviewResult, error) {
	rs, err := dataaccess.ListReviewsForScope(ctx, q, scopeKind, scopeID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewResult, len(rs))
	for i, r := range rs {
		out[i] = reviewResult(r)
	}
	return out, nil
}

// UpdateReview is the `review update` verb, e.g. re-triaging severity.
func UpdateReview(ctx context.Context, q dataaccess.Querier, id, issueType, description string, severity types.ReviewSeverity, metadata docvalue.Value, opts Options) (*ReviewResult, error) {
	r, err := dataaccess.ReadReview(ctx, q, id)
	if err != nil {
		return nil, err
	}
	r.IssueType, r.Description, r.Severity, r.Metadata = issueType, description, severity, metadata
	if dryRun(opts) {
		res := reviewResult(r)
		return &res, nil
	}
	if err := dataaccess.UpdateReview(ctx, q, r); err != nil {
		return nil, err
	}
	res := reviewResult(r)
	return &res, nil
}

// DeleteReview is the `review delete` verb, e.g. once a finding is resolved.
func DeleteReview(ctx context.Context, q dataaccess.Querier, id string, opts Options) error {
	if _, err := dataaccess.ReadReview(ctx, q, id); err != nil {
		return err
	}
	if dryRun(opts) {
		return nil
	}
	return dataaccess.DeleteReview(ctx, q, id)
}
