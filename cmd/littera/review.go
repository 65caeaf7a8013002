package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "manage Review findings attached to Works, Documents, Sections, or Blocks",
}

var (
	reviewScopeKind  string
	reviewIssueType  string
	reviewDesc       string
	reviewSeverity   string
	reviewMeta       []string
)

var reviewAddCmd = &cobra.Command{
	Use:   "add [scope-id]",
	Short: "add a Review finding, scoped by --scope-kind to scope-id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddReview(ctx, db, types.ReviewScopeKind(reviewScopeKind), args[0], reviewIssueType, reviewDesc, types.ReviewSeverity(reviewSeverity), parseMeta(reviewMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list [scope-id]",
	Short: "list Review findings for a scope, scoped by --scope-kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListReview(ctx, db, types.ReviewScopeKind(reviewScopeKind), args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var reviewUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update a Review finding's issue type, description, severity, or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateReview(ctx, db, args[0], reviewIssueType, reviewDesc, types.ReviewSeverity(reviewSeverity), parseMeta(reviewMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete a Review finding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteReview(ctx, db, args[0], opts())
		})
	},
}

func init() {
	reviewAddCmd.Flags().StringVar(&reviewScopeKind, "scope-kind", "", "scope kind (work, document, section, block)")
	reviewAddCmd.Flags().StringVar(&reviewIssueType, "issue-type", "", "issue type tag")
	reviewAddCmd.Flags().StringVar(&reviewDesc, "description", "", "free-text description")
	reviewAddCmd.Flags().StringVar(&reviewSeverity, "severity", string(types.ReviewSeverityInfo), "severity (info, warn, error)")
	reviewAddCmd.Flags().StringArrayVar(&reviewMeta, "meta", nil, "metadata key=value (repeatable)")

	reviewListCmd.Flags().StringVar(&reviewScopeKind, "scope-kind", "", "scope kind (work, document, section, block)")

	reviewUpdateCmd.Flags().StringVar(&reviewIssueType, "issue-type", "", "issue type tag")
	reviewUpdateCmd.Flags().StringVar(&reviewDesc, "description", "", "free-text description")
	reviewUpdateCmd.Flags().StringVar(&reviewSeverity, "severity", "", "severity (info, warn, error)")
	reviewUpdateCmd.Flags().StringArrayVar(&reviewMeta, "meta", nil, "metadata key=value (repeatable)")

	reviewCmd.AddCommand(reviewAddCmd, reviewListCmd, reviewUpdateCmd, reviewDeleteCmd)
}
