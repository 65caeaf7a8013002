package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/storage/ppg"
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "manage the Work that roots this writing project",
}

var (
	workTitle       string
	workDescription string
	workLanguage    string
	workMeta        []string
)

var workInitCmd = &cobra.Command{
	Use:   "init",
	Short: "initialize a new Work in the current (or --work) directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := ppg.Init(workRoot, nil)
		if err != nil {
			return err
		}
		store = s
		defer releaseStore()
		db, err := s.DB(ctx)
		if err != nil {
			return err
		}
		r, err := command.InitWork(ctx, db, workTitle, workDescription, workLanguage, parseMeta(workMeta), opts())
		if err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Fprintln(os.Stderr, bannerStyle.Render("Work initialized")+" — "+r.ID)
		}
		return printResult(r)
	},
}

var workShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "show the Work's own row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ShowWork(ctx, db, args[0])
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var workListCmd = &cobra.Command{
	Use:   "list",
	Short: "list Works recorded in this cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.ListWork(ctx, db)
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var workUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "update a Work's title, description, default language, or metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			r, err := command.UpdateWork(ctx, db, args[0], workTitle, workDescription, workLanguage, parseMeta(workMeta), opts())
			if err != nil {
				return err
			}
			return printResult(r)
		})
	},
}

var workDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "delete a Work and, with --force, every Document beneath it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			return command.DeleteWork(ctx, db, args[0], opts())
		})
	},
}

func init() {
	workInitCmd.Flags().StringVar(&workTitle, "title", "", "Work title")
	workInitCmd.Flags().StringVar(&workDescription, "description", "", "Work description")
	workInitCmd.Flags().StringVar(&workLanguage, "language", "", "default language tag")
	workInitCmd.Flags().StringArrayVar(&workMeta, "meta", nil, "metadata key=value (repeatable)")

	workUpdateCmd.Flags().StringVar(&workTitle, "title", "", "Work title")
	workUpdateCmd.Flags().StringVar(&workDescription, "description", "", "Work description")
	workUpdateCmd.Flags().StringVar(&workLanguage, "language", "", "default language tag")
	workUpdateCmd.Flags().StringArrayVar(&workMeta, "meta", nil, "metadata key=value (repeatable)")

	workCmd.AddCommand(workInitCmd, workShowCmd, workListCmd, workUpdateCmd, workDeleteCmd)
}
