package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "manage Documents within a Work",
}

var (
	docTitle string
	docOrder int
	docMeta  []string
)

var docAddCmd = &cobra.Command{
	Use:   "add [work-id]",
	Short: "add a Document to a Work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddDocument(ctx, db, args[0], docTitle, docOrder, parseMeta(docMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var docListCmd = &cobra.Command{
	Use:   "list [work-id]",
	Short: "list a Work's Documents in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListDocument(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "show a Document's own row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowDocument(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var docUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update a Document's title or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateDocument(ctx, db, args[0], docTitle, parseMeta(docMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var docReorderCmd = &cobra.Command{
	Use:   "reorder [id]",
	Short: "move a Document to a new order_index among its siblings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ReorderDocument(ctx, db, args[0], docOrder, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete a Document and, with --force, every Section beneath it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteDocument(ctx, db, args[0], opts())
		})
	},
}

func init() {
	docAddCmd.Flags().StringVar(&docTitle, "title", "", "Document title")
	docAddCmd.Flags().IntVar(&docOrder, "order", -1, "order_index among siblings (negative assigns max+1)")
	docAddCmd.Flags().StringArrayVar(&docMeta, "meta", nil, "metadata key=value (repeatable)")

	docUpdateCmd.Flags().StringVar(&docTitle, "title", "", "Document title")
	docUpdateCmd.Flags().StringArrayVar(&docMeta, "meta", nil, "metadata key=value (repeatable)")

	docReorderCmd.Flags().IntVar(&docOrder, "order", 0, "new order_index")

	docCmd.AddCommand(docAddCmd, docListCmd, docShowCmd, docUpdateCmd, docReorderCmd, docDeleteCmd)
}
