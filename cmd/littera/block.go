package main

import (
	"context"
	"database/sql"
	"fmt"

	"charm.land/glamour/v2"
	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/types"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "manage Blocks within a Section",
}

var (
	blockKind     string
	blockLanguage string
	blockText     string
	blockOrder    int
	blockMeta     []string
	blockPreview  bool
)

var blockAddCmd = &cobra.Command{
	Use:   "add [section-id]",
	Short: "add a Block to a Section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddBlock(ctx, db, args[0], types.BlockKind(blockKind), blockLanguage, blockText, blockOrder, parseMeta(blockMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var blockListCmd = &cobra.Command{
	Use:   "list [section-id]",
	Short: "list a Section's Blocks in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListBlock(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var blockShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "show a Block's own row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowBlock(ctx, db, args[0])
			if err != nil {
				return err
			}
			if blockPreview && !jsonOutput {
				return renderBlockPreview(r.SourceText)
			}
			return printResult(r)
		})
	},
}

// renderBlockPreview renders a Block's canonical source_text as styled
// terminal Markdown. With --preview in human mode it is printed instead of
// printResult's "field: value" listing; --json ignores --preview. The
// preview is opt-in, so the default human output keeps its byte-for-byte
// stability (spec.md §4.4). glamour falls back to a plain renderer when
// stdout is not a terminal (as it is under the CLI's own tests).
func renderBlockPreview(markdown string) error {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		return fmt.Errorf("render markdown preview: %w", err)
	}
	fmt.Print(out)
	return nil
}

var blockUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update a Block's kind, language, source text, or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateBlock(ctx, db, args[0], types.BlockKind(blockKind), blockLanguage, blockText, parseMeta(blockMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var blockReorderCmd = &cobra.Command{
	Use:   "reorder [id]",
	Short: "move a Block to a new order_index among its siblings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ReorderBlock(ctx, db, args[0], blockOrder, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var blockDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete a Block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteBlock(ctx, db, args[0], opts())
		})
	},
}

func init() {
	blockAddCmd.Flags().StringVar(&blockKind, "kind", string(types.BlockKindProse), "Block kind (prose, heading, code, quote, hr, or a registered custom kind)")
	blockAddCmd.Flags().StringVar(&blockLanguage, "language", "", "Block language tag")
	blockAddCmd.Flags().StringVar(&blockText, "text", "", "Block source text")
	blockAddCmd.Flags().IntVar(&blockOrder, "order", -1, "order_index among siblings (negative assigns max+1)")
	blockAddCmd.Flags().StringArrayVar(&blockMeta, "meta", nil, "metadata key=value (repeatable)")

	blockUpdateCmd.Flags().StringVar(&blockKind, "kind", "", "Block kind")
	blockUpdateCmd.Flags().StringVar(&blockLanguage, "language", "", "Block language tag")
	blockUpdateCmd.Flags().StringVar(&blockText, "text", "", "Block source text")
	blockUpdateCmd.Flags().StringArrayVar(&blockMeta, "meta", nil, "metadata key=value (repeatable)")

	blockReorderCmd.Flags().IntVar(&blockOrder, "order", 0, "new order_index")

	blockShowCmd.Flags().BoolVar(&blockPreview, "preview", false, "render source_text as styled Markdown instead of the stable field listing")

	blockCmd.AddCommand(blockAddCmd, blockListCmd, blockShowCmd, blockUpdateCmd, blockReorderCmd, blockDeleteCmd)
}
