package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "manage per-Work Entity overlays (notes and metadata scoped to one Work)",
}

var (
	overlayWorkID string
	overlayNotes  string
	overlayMeta   []string
)

var overlaySetCmd = &cobra.Command{
	Use:   "set [entity-id]",
	Short: "set (create or update) an Entity's overlay for --work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.SetOverlay(ctx, db, args[0], overlayWorkID, overlayNotes, parseMeta(overlayMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var overlayShowCmd = &cobra.Command{
	Use:   "show [entity-id]",
	Short: "show an Entity's overlay for --work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowOverlay(ctx, db, args[0], overlayWorkID)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var overlayDeleteCmd = &cobra.Command{
	Use:   "delete [entity-id]",
	Short: "delete an Entity's overlay for --work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteOverlay(ctx, db, args[0], overlayWorkID, opts())
		})
	},
}

func init() {
	overlaySetCmd.Flags().StringVar(&overlayWorkID, "work", "", "Work id this overlay is scoped to")
	overlaySetCmd.Flags().StringVar(&overlayNotes, "notes", "", "free-text notes")
	overlaySetCmd.Flags().StringArrayVar(&overlayMeta, "meta", nil, "metadata key=value (repeatable)")

	overlayShowCmd.Flags().StringVar(&overlayWorkID, "work", "", "Work id this overlay is scoped to")
	overlayDeleteCmd.Flags().StringVar(&overlayWorkID, "work", "", "Work id this overlay is scoped to")

	overlayCmd.AddCommand(overlaySetCmd, overlayShowCmd, overlayDeleteCmd)
}
