package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/types"
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "manage Entities in the Work-independent entity graph",
}

var (
	entityType   string
	entityLabel  string
	entityProps  []string
	entityStatus string
	entityNotes  string
)

var entityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "add an Entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.AddEntity(ctx, db, entityType, entityLabel, parseMeta(entityProps), entityNotes, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var entityShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "show an Entity's own row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowEntity(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var entityListCmd = &cobra.Command{
	Use:   "list",
	Short: "list Entities, optionally filtered by --type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListEntity(ctx, db, entityType)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var entityUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update an Entity's type, label, properties, status, or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateEntity(ctx, db, args[0], entityType, entityLabel, parseMeta(entityProps), types.EntityStatus(entityStatus), entityNotes, opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var entityDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete an Entity and, with --force, its Labels and Mentions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteEntity(ctx, db, args[0], opts())
		})
	},
}

func init() {
	entityAddCmd.Flags().StringVar(&entityType, "type", "", "Entity type tag")
	entityAddCmd.Flags().StringVar(&entityLabel, "label", "", "canonical label")
	entityAddCmd.Flags().StringArrayVar(&entityProps, "prop", nil, "property key=value (repeatable)")
	entityAddCmd.Flags().StringVar(&entityNotes, "notes", "", "free-text notes")

	entityListCmd.Flags().StringVar(&entityType, "type", "", "filter by type tag")

	entityUpdateCmd.Flags().StringVar(&entityType, "type", "", "Entity type tag")
	entityUpdateCmd.Flags().StringVar(&entityLabel, "label", "", "canonical label")
	entityUpdateCmd.Flags().StringArrayVar(&entityProps, "prop", nil, "property key=value (repeatable)")
	entityUpdateCmd.Flags().StringVar(&entityStatus, "status", "", "status (active, merged, retired)")
	entityUpdateCmd.Flags().StringVar(&entityNotes, "notes", "", "free-text notes")

	entityCmd.AddCommand(entityAddCmd, entityShowCmd, entityListCmd, entityUpdateCmd, entityDeleteCmd)
}
