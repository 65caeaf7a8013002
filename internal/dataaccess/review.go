package dataaccess

import (
	"context"

	"github.com/ikari-pl/littera/internal/types"
)

// CreateReview inserts a diagnostic finding over some scope (Work,
// Document, Section, or Block).
func CreateReview(ctx context.Context, q Querier, r *types.Review) error {
	meta, err := encodeMeta(r.Metadata)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO reviews (id, scope_kind, scope_id, issue_type, description, severity, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.ScopeKind), r.ScopeID, r.IssueType, r.Description, string(r.Severity), r.CreatedAt, meta)
	return duplicate("review", err)
}

// ReadReview fetches one Review by ID.
func ReadReview(ctx context.Context, q Querier, id string) (*types.Review, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, scope_kind, scope_id, issue_type, description, severity, created_at, metadata
		FROM reviews WHERE id = ?
	`, id)
	return scanReview(row)
}

// ListReviewsForScope returns every Review attached to (scopeKind, scopeID).
func ListReviewsForScope(ctx context.Context, q Querier, scopeKind types.ReviewScopeKind, scopeID string) ([]*types.Review, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, scope_kind, scope_id, issue_type, description, severity, created_at, metadata
		FROM reviews WHERE scope_kind = ? AND scope_id = ?
		ORDER BY created_at, id
	`, string(scopeKind), scopeID)
	if err != nil {
		return nil, wrap("list reviews", err)
	}
	defer rows.Close()

	var out []*types.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, wrap("list reviews", rows.Err())
}

// UpdateReview overwrites the mutable fields of an existing Review, e.g.
// changing its severity after re-triage.
func UpdateReview(ctx context.Context, q Querier, r *types.Review) error {
	meta, err := encodeMeta(r.Metadata)
	if err != nil {
		return err
	}
	return execOne(ctx, q, "update review", `
		UPDATE reviews SET issue_type = ?, description = ?, severity = ?, metadata = ?
		WHERE id = ?
	`, r.IssueType, r.Description, string(r.Severity), meta, r.ID)
}

// DeleteReview removes a Review, e.g. once its finding is resolved.
func DeleteReview(ctx context.Context, q Querier, id string) error {
	return execOne(ctx, q, "delete review", `DELETE FROM reviews WHERE id = ?`, id)
}

func scanReview(row scannable) (*types.Review, error) {
	var r types.Review
	var scopeKind, severity string
	var meta []byte
	if err := row.Scan(&r.ID, &scopeKind, &r.ScopeID, &r.IssueType, &r.Description, &severity, &r.CreatedAt, &meta); err != nil {
		return nil, notFound("review", "", err)
	}
	r.ScopeKind = types.ReviewScopeKind(scopeKind)
	r.Severity = types.ReviewSeverity(severity)
	v, err := decodeMeta(meta)
	if err != nil {
		return nil, err
	}
	r.Metadata = v
	return &r, nil
}
