package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "manage per-language Labels on an Entity",
}

var (
	labelLanguage string
	labelBaseForm string
	labelAliases  []string
)

var labelSetCmd = &cobra.Command{
	Use:   "set [entity-id]",
	Short: "set (create or update) an Entity's Label for --language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.SetLabel(ctx, db, args[0], labelLanguage, labelBaseForm, labelAliases, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var labelShowCmd = &cobra.Command{
	Use:   "show [entity-id]",
	Short: "show an Entity's Label for --language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowLabel(ctx, db, args[0], labelLanguage)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list [entity-id]",
	Short: "list all of an Entity's Labels across languages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListLabel(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete [entity-id]",
	Short: "delete an Entity's Label for --language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteLabel(ctx, db, args[0], labelLanguage, opts())
		})
	},
}

func init() {
	labelSetCmd.Flags().StringVar(&labelLanguage, "language", "", "language tag")
	labelSetCmd.Flags().StringVar(&labelBaseForm, "base-form", "", "base (dictionary) form in this language")
	labelSetCmd.Flags().StringArrayVar(&labelAliases, "alias", nil, "alternate surface form (repeatable)")

	labelShowCmd.Flags().StringVar(&labelLanguage, "language", "", "language tag")
	labelDeleteCmd.Flags().StringVar(&labelLanguage, "language", "", "language tag")

	labelCmd.AddCommand(labelSetCmd, labelShowCmd, labelListCmd, labelDeleteCmd)
}
