package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/types"
)

var alignmentCmd = &cobra.Command{
	Use:   "alignment",
	Short: "manage cross-language BlockAlignments and inspect coverage gaps",
}

var (
	alignmentType       string
	alignmentConfidence float64
	alignmentSections   []string
)

var alignmentAddCmd = &cobra.Command{
	Use:   "add [source-block-id] [target-block-id]",
	Short: "record an alignment between two Blocks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddAlignment(ctx, db, args[0], args[1], types.AlignmentType(alignmentType), alignmentConfidence, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var alignmentListCmd = &cobra.Command{
	Use:   "list [block-id]",
	Short: "list the alignments touching a Block, from either side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListAlignment(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var alignmentDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete an alignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteAlignment(ctx, db, args[0], opts())
		})
	},
}

var alignmentGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "report Entity-label coverage gaps across the --section alignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AlignmentGaps(ctx, db, alignmentSections)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

func init() {
	alignmentAddCmd.Flags().StringVar(&alignmentType, "type", "", "alignment type tag (e.g. translation)")
	alignmentAddCmd.Flags().Float64Var(&alignmentConfidence, "confidence", 1.0, "confidence score in [0,1]")

	alignmentGapsCmd.Flags().StringArrayVar(&alignmentSections, "section", nil, "Section id to inspect (repeatable)")

	alignmentCmd.AddCommand(alignmentAddCmd, alignmentListCmd, alignmentDeleteCmd, alignmentGapsCmd)
}
